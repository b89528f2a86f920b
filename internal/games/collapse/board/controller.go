package board

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
)

// State is the selection controller's phase.
type State int

const (
	StateIdle State = iota
	StateMatchPending
	StateRemoving
	StateCompacting
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateMatchPending:
		return "MatchPending"
	case StateRemoving:
		return "Removing"
	case StateCompacting:
		return "Compacting"
	default:
		return "Unknown"
	}
}

// RefillPolicy decides when a fresh window is appended after compaction.
// A visible window without moves is always refilled.
type RefillPolicy string

const (
	RefillOnGap   RefillPolicy = "on_gap"   // refill once any visible slot is empty
	RefillOnStuck RefillPolicy = "on_stuck" // refill only when no move is left
)

// maxRefillsPerSettle caps appends after one selection so an unlucky run
// of unmatchable windows cannot spin forever.
const maxRefillsPerSettle = 8

var (
	// ErrBusy rejects a selection while a previous one is still settling.
	ErrBusy = errors.New("board: selection in progress")
	// ErrOutOfBounds rejects a selection outside the visible window.
	ErrOutOfBounds = errors.New("board: index outside visible window")
)

// ControllerConfig contains the refill rules.
type ControllerConfig struct {
	Refill     RefillPolicy
	MaxWindows int // 0 = unlimited growth
}

// Outcome describes one selection.
type Outcome struct {
	Seed     Index   // absolute index that was selected
	Matched  bool    // false when the seed had no same-color neighbor
	Removed  []Index // absolute indices of removed tiles
	Moves    []Move  // tiles relocated by compaction
	Appended int     // windows appended by the refill step
}

type pendingRemoval struct {
	idx  Index
	done Completion
}

// Controller turns tile selections into match, removal, compaction and
// refill. It is not safe for concurrent use; hosts drive it from one loop.
type Controller struct {
	board     *Board
	animator  Animator
	logger    *log.Logger
	cfg       ControllerConfig
	state     State
	pending   []pendingRemoval
	current   Outcome
	last      Outcome
	stuck     bool
	onSettled func(Outcome)
}

// NewController creates a controller for b and routes the board's
// pointer-up bindings to Select. animator and logger may be nil.
func NewController(b *Board, cfg ControllerConfig, animator Animator, logger *log.Logger) *Controller {
	if cfg.Refill == "" {
		cfg.Refill = RefillOnGap
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Controller{
		board:    b,
		animator: animator,
		logger:   logger,
		cfg:      cfg,
	}
	b.SetPointerHandler(func(idx Index) {
		if _, err := c.Select(idx); err != nil {
			c.logger.Debug("selection rejected", "index", idx, "error", err)
		}
	})
	// A starting window without moves gets replaced right away.
	c.refill(&Outcome{})
	return c
}

// OnSettled registers fn to be called whenever a selection finishes.
func (c *Controller) OnSettled(fn func(Outcome)) {
	c.onSettled = fn
}

// State returns the current phase.
func (c *Controller) State() State {
	return c.state
}

// Busy returns true while a selection is in flight.
func (c *Controller) Busy() bool {
	return c.state != StateIdle
}

// Stuck returns true when the visible window has no move and the board
// may not grow any further.
func (c *Controller) Stuck() bool {
	return c.stuck
}

// Pending returns the number of removal effects still running.
func (c *Controller) Pending() int {
	n := 0
	for _, p := range c.pending {
		if !completed(p.done) {
			n++
		}
	}
	return n
}

// Select handles a pointer-up on the tile at absolute index idx.
//
// When removal effects are still running the returned Outcome is partial
// (no Moves yet) and the full one is delivered through OnSettled. Without
// an animator the selection settles before Select returns.
func (c *Controller) Select(idx Index) (Outcome, error) {
	if c.state != StateIdle {
		return Outcome{}, ErrBusy
	}
	m := c.board.VisibleMapper()
	if !m.Contains(idx) {
		return Outcome{}, ErrOutOfBounds
	}

	c.state = StateMatchPending
	snap := c.board.SnapshotWindow(m.Start, ActiveColor)
	mask := Match(snap, m.Normalize(idx))
	if mask == nil {
		c.logger.Debug("no neighbors", "index", idx)
		c.state = StateIdle
		return Outcome{Seed: idx}, nil
	}

	c.state = StateRemoving
	c.current = Outcome{Seed: idx, Matched: true}
	for _, local := range mask.Cells() {
		abs := m.Denormalize(local)
		c.current.Removed = append(c.current.Removed, abs)
		c.pending = append(c.pending, pendingRemoval{
			idx:  abs,
			done: c.play(c.board.At(abs).Handle, EffectDestroy),
		})
	}
	c.logger.Debug("group matched", "index", idx, "size", mask.Len())

	partial := c.current
	if c.Advance() {
		return c.last, nil
	}
	return partial, nil
}

// Advance settles the in-flight selection once every removal effect has
// completed. It never blocks and returns true if it settled.
func (c *Controller) Advance() bool {
	if c.state != StateRemoving {
		return false
	}
	for _, p := range c.pending {
		if !completed(p.done) {
			return false
		}
	}
	c.settle()
	return true
}

// Wait blocks until every removal effect has completed, then settles.
// It returns ctx.Err() if ctx ends first; the selection stays in flight.
func (c *Controller) Wait(ctx context.Context) error {
	if c.state != StateRemoving {
		return nil
	}
	for _, p := range c.pending {
		select {
		case <-p.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.settle()
	return nil
}

// settle removes the matched tiles, compacts and refills.
func (c *Controller) settle() {
	for _, p := range c.pending {
		c.board.RemoveTile(p.idx)
	}
	c.pending = nil

	c.state = StateCompacting
	c.compact(&c.current)
	c.refill(&c.current)

	out := c.current
	c.current = Outcome{}
	c.last = out
	c.state = StateIdle

	if c.onSettled != nil {
		c.onSettled(out)
	}
}

func (c *Controller) compact(out *Outcome) {
	moves := c.board.Compact()
	for _, mv := range moves {
		c.play(mv.Handle, EffectMove)
	}
	out.Moves = append(out.Moves, moves...)
}

// refill appends windows while the visible one needs it and growth allows.
func (c *Controller) refill(out *Outcome) {
	for range maxRefillsPerSettle {
		needed := !c.board.VisibleHasMove() ||
			(c.cfg.Refill == RefillOnGap && c.board.VisibleHasGap())
		if !needed {
			break
		}
		if c.cfg.MaxWindows > 0 && c.board.Windows() >= c.cfg.MaxWindows {
			break
		}
		c.board.AppendWindow()
		out.Appended++
		// The reserve above may still hold gaps; settle it too.
		c.compact(out)
	}
	c.stuck = !c.board.VisibleHasMove()
	if c.stuck {
		c.logger.Info("no moves left", "windows", c.board.Windows())
	}
}

func (c *Controller) play(h Handle, effect string) Completion {
	if c.animator == nil || h == 0 {
		return Done()
	}
	return c.animator.Play(h, effect)
}

func completed(done Completion) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}
