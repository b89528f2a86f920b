package board

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Board size limits.
const (
	MinSize = 2
	MaxSize = 10
)

// DefaultSolvableAttempts bounds color re-rolls when ValidateSolvable is set.
const DefaultSolvableAttempts = 50

// Tile is one colored unit occupying a board slot.
type Tile struct {
	Position Point    // canonical render-space position of the slot
	Index    Index    // absolute logical slot
	Color    ColorKey // palette key
	Active   bool     // false once removed and not yet refilled
	Handle   Handle   // renderable; zero when inactive
}

// Config contains the value-typed board settings.
type Config struct {
	Size             int // rows and columns per window
	InitialWindows   int // windows stacked at construction (default 2)
	Geometry         Geometry
	ValidateSolvable bool // re-roll new windows until they contain a move
	SolvableAttempts int
}

// Deps are the collaborators a Board talks to.
// Renderer and Palette are required; the rest are optional.
type Deps struct {
	Palette  Palette
	Renderer Renderer
	Animator Animator
	Rand     IntnSource
	Logger   *log.Logger
}

// Board is the authoritative stack of tile windows.
// Absolute row r belongs to window r/Size. The last window is the visible one.
type Board struct {
	cfg       Config
	palette   Palette
	renderer  Renderer
	animator  Animator
	rng       IntnSource
	logger    *log.Logger
	windows   [][][]*Tile // [window][localRow][col]
	onPointer func(Index)
}

// ErrInvalidConfig is returned by New for unusable settings.
var ErrInvalidConfig = errors.New("board: invalid config")

// New creates a board and stacks the initial windows.
func New(cfg Config, deps Deps) (*Board, error) {
	if cfg.Size < MinSize || cfg.Size > MaxSize {
		return nil, fmt.Errorf("%w: size %d outside [%d, %d]", ErrInvalidConfig, cfg.Size, MinSize, MaxSize)
	}
	if deps.Palette == nil || deps.Palette.Size() == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidConfig)
	}
	if deps.Renderer == nil {
		return nil, fmt.Errorf("%w: no renderer", ErrInvalidConfig)
	}
	if deps.Rand == nil {
		return nil, fmt.Errorf("%w: no random source", ErrInvalidConfig)
	}
	if cfg.InitialWindows <= 0 {
		cfg.InitialWindows = 2
	}
	if cfg.SolvableAttempts <= 0 {
		cfg.SolvableAttempts = DefaultSolvableAttempts
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}

	b := &Board{
		cfg:      cfg,
		palette:  deps.Palette,
		renderer: deps.Renderer,
		animator: deps.Animator,
		rng:      deps.Rand,
		logger:   deps.Logger,
	}
	for range cfg.InitialWindows {
		b.AppendWindow()
	}
	return b, nil
}

// Size returns the number of rows and columns per window.
func (b *Board) Size() int {
	return b.cfg.Size
}

// Geometry returns the render-space layout.
func (b *Board) Geometry() Geometry {
	return b.cfg.Geometry
}

// Palette returns the palette tiles are colored from.
func (b *Board) Palette() Palette {
	return b.palette
}

// Windows returns the number of stacked windows.
func (b *Board) Windows() int {
	return len(b.windows)
}

// Rows returns the total number of rows across all windows.
func (b *Board) Rows() int {
	return len(b.windows) * b.cfg.Size
}

// WindowStart returns the absolute row of the visible window's first row.
func (b *Board) WindowStart() int {
	if len(b.windows) == 0 {
		return 0
	}
	return (len(b.windows) - 1) * b.cfg.Size
}

// VisibleMapper returns the coordinate mapper for the visible window.
func (b *Board) VisibleMapper() Mapper {
	return Mapper{WindowSize: b.cfg.Size, Start: b.WindowStart()}
}

// InBounds returns true if idx addresses an existing slot.
func (b *Board) InBounds(idx Index) bool {
	return idx.Row >= 0 && idx.Row < b.Rows() && idx.Col >= 0 && idx.Col < b.cfg.Size
}

// At returns the tile in slot idx. It panics if idx is out of bounds.
func (b *Board) At(idx Index) *Tile {
	a := Locate(idx, b.cfg.Size)
	return b.windows[a.Window][a.LocalRow][a.Col]
}

func (b *Board) set(idx Index, t *Tile) {
	a := Locate(idx, b.cfg.Size)
	b.windows[a.Window][a.LocalRow][a.Col] = t
}

// SetPointerHandler installs fn as the handler every tile's pointer-up
// binding reports to. Existing bindings pick it up immediately.
func (b *Board) SetPointerHandler(fn func(Index)) {
	b.onPointer = fn
}

// RemoveTile destroys the tile's renderable and marks the slot inactive.
// The slot keeps its place until the next compaction. Removing an
// inactive slot does nothing.
func (b *Board) RemoveTile(idx Index) {
	t := b.At(idx)
	if !t.Active {
		return
	}
	b.renderer.DestroyHandle(t.Handle)
	t.Handle = 0
	t.Active = false
}

// ActiveColor reports the color of active tiles and treats inactive ones as null.
func ActiveColor(t *Tile) (ColorKey, bool) {
	return t.Color, t.Active
}

// SnapshotWindow copies the colors of rows [start, start+Size) into a
// window-shaped snapshot. colorOf decides each cell's key and presence.
func (b *Board) SnapshotWindow(start int, colorOf func(*Tile) (ColorKey, bool)) Snapshot {
	n := b.cfg.Size
	s := make(Snapshot, n)
	for r := range n {
		s[r] = make([]Cell, n)
		for c := range n {
			if key, ok := colorOf(b.At(I(start+r, c))); ok {
				s[r][c] = Key(key)
			}
		}
	}
	return s
}

// VisibleSnapshot returns the snapshot of the visible window.
func (b *Board) VisibleSnapshot() Snapshot {
	return b.SnapshotWindow(b.WindowStart(), ActiveColor)
}

// AppendWindow stacks a block of Size fresh rows under the board and makes
// it the visible window.
func (b *Board) AppendWindow() {
	n := b.cfg.Size
	w := len(b.windows)

	colors := b.rollColors()
	if b.cfg.ValidateSolvable {
		attempts := 1
		for ; attempts < b.cfg.SolvableAttempts && !HasMove(colorSnapshot(colors)); attempts++ {
			colors = b.rollColors()
		}
		if !HasMove(colorSnapshot(colors)) {
			b.logger.Warn("window has no move", "window", w, "attempts", attempts)
		}
	}

	block := make([][]*Tile, n)
	for r := range block {
		block[r] = make([]*Tile, n)
	}
	b.windows = append(b.windows, block)

	for r := range n {
		for c := range n {
			idx := WindowAddr{Window: w, LocalRow: r, Col: c}.Index(n)
			b.spawn(idx, colors[r][c])
		}
	}
	b.logger.Debug("window appended", "window", w, "rows", b.Rows())
}

// rollColors draws a Size x Size block of uniform random palette keys.
func (b *Board) rollColors() [][]ColorKey {
	n := b.cfg.Size
	k := b.palette.Size()
	colors := make([][]ColorKey, n)
	for r := range colors {
		colors[r] = make([]ColorKey, n)
		for c := range colors[r] {
			colors[r][c] = ColorKey(b.rng.Intn(k))
		}
	}
	return colors
}

func colorSnapshot(colors [][]ColorKey) Snapshot {
	s := make(Snapshot, len(colors))
	for r, row := range colors {
		s[r] = make([]Cell, len(row))
		for c, key := range row {
			s[r][c] = Key(key)
		}
	}
	return s
}

// spawn creates an active tile with a fresh renderable in slot idx.
func (b *Board) spawn(idx Index, color ColorKey) {
	pos := b.cfg.Geometry.Position(idx)
	h := b.renderer.CreateTileHandle(pos, b.cfg.Geometry.CellSize(), b.palette.Sprite(color))
	t := &Tile{
		Position: pos,
		Index:    idx,
		Color:    color,
		Active:   true,
		Handle:   h,
	}
	b.set(idx, t)
	b.bind(t)
	b.play(h, EffectScaleIn)
}

// bind points the tile's pointer-up handler at its current index.
func (b *Board) bind(t *Tile) {
	idx := t.Index
	b.renderer.BindPointerUp(t.Handle, func() {
		if b.onPointer != nil {
			b.onPointer(idx)
		}
	})
}

func (b *Board) play(h Handle, effect string) Completion {
	if b.animator == nil {
		return Done()
	}
	return b.animator.Play(h, effect)
}

// ActiveCount returns the number of active tiles on the whole board.
func (b *Board) ActiveCount() int {
	count := 0
	for _, block := range b.windows {
		for _, row := range block {
			for _, t := range row {
				if t.Active {
					count++
				}
			}
		}
	}
	return count
}

// VisibleHasGap reports whether the visible window has an inactive slot.
func (b *Board) VisibleHasGap() bool {
	start := b.WindowStart()
	for r := range b.cfg.Size {
		for c := range b.cfg.Size {
			if !b.At(I(start+r, c)).Active {
				return true
			}
		}
	}
	return false
}

// VisibleHasMove reports whether the visible window contains a match.
func (b *Board) VisibleHasMove() bool {
	return HasMove(b.VisibleSnapshot())
}
