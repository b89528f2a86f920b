// Package animation plays tick-driven tile effects and reports their
// completion through channels.
package animation

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/collapse/internal/games/collapse/board"
)

// Default effect lengths in ticks (~60 fps).
const (
	DefaultScaleInTicks = 6 // ~100ms
	DefaultDestroyTicks = 8 // ~133ms
	DefaultMoveTicks    = 8 // ~133ms
)

// Clip is a named effect with a fixed length.
type Clip struct {
	Name  string
	Ticks int
}

// DefaultClips returns the three effects the board plays.
func DefaultClips() []Clip {
	return []Clip{
		{Name: board.EffectScaleIn, Ticks: DefaultScaleInTicks},
		{Name: board.EffectDestroy, Ticks: DefaultDestroyTicks},
		{Name: board.EffectMove, Ticks: DefaultMoveTicks},
	}
}

type key struct {
	handle board.Handle
	effect string
}

type running struct {
	clip Clip
	tick int
	done chan struct{}
}

// Player advances every running effect by one tick per Step.
// Like the rest of the game state it is driven from a single goroutine.
type Player struct {
	clips   map[string]Clip
	running map[key]*running
	logger  *log.Logger
}

// NewPlayer creates a player with the given clips registered.
// logger may be nil.
func NewPlayer(logger *log.Logger, clips ...Clip) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := &Player{
		clips:   make(map[string]Clip),
		running: make(map[key]*running),
		logger:  logger,
	}
	for _, c := range clips {
		p.Register(c)
	}
	return p
}

// Register adds a clip. Registering a name twice logs an error and keeps
// the first clip.
func (p *Player) Register(c Clip) {
	if _, ok := p.clips[c.Name]; ok {
		p.logger.Error("clip already registered", "clip", c.Name)
		return
	}
	if c.Ticks < 1 {
		c.Ticks = 1
	}
	p.clips[c.Name] = c
}

// Registered returns true if a clip with that name exists.
func (p *Player) Registered(name string) bool {
	_, ok := p.clips[name]
	return ok
}

// Play starts effect on h and returns a channel closed when it ends.
// Unknown effects complete immediately. Restarting an effect that is
// still running on the same handle completes the old one first.
func (p *Player) Play(h board.Handle, effect string) board.Completion {
	clip, ok := p.clips[effect]
	if !ok {
		p.logger.Warn("unknown clip", "clip", effect, "handle", h)
		return board.Done()
	}

	k := key{handle: h, effect: effect}
	if old, ok := p.running[k]; ok {
		close(old.done)
	}
	r := &running{clip: clip, done: make(chan struct{})}
	p.running[k] = r
	return r.done
}

// Step advances every running effect by one tick and completes the ones
// that reached their end. It returns the number still running.
func (p *Player) Step() int {
	for k, r := range p.running {
		r.tick++
		if r.tick >= r.clip.Ticks {
			close(r.done)
			delete(p.running, k)
		}
	}
	return len(p.running)
}

// Flush completes every running effect at once.
func (p *Player) Flush() {
	for k, r := range p.running {
		close(r.done)
		delete(p.running, k)
	}
}

// Stop completes every effect running on h. Hosts call it before a
// handle's renderable goes away.
func (p *Player) Stop(h board.Handle) {
	for k, r := range p.running {
		if k.handle == h {
			close(r.done)
			delete(p.running, k)
		}
	}
}

// Running returns the number of effects in progress.
func (p *Player) Running() int {
	return len(p.running)
}

// Progress returns the eased progress in [0, 1] of effect on h.
// ok is false when the effect is not running.
func (p *Player) Progress(h board.Handle, effect string) (t float64, ok bool) {
	r, ok := p.running[key{handle: h, effect: effect}]
	if !ok {
		return 0, false
	}
	return EaseOutQuad(float64(r.tick) / float64(r.clip.Ticks)), true
}

// Effects lists the effects running on h, sorted by name.
func (p *Player) Effects(h board.Handle) []string {
	var out []string
	for k := range p.running {
		if k.handle == h {
			out = append(out, k.effect)
		}
	}
	sort.Strings(out)
	return out
}

// EaseOutQuad decelerates smoothly towards 1.
func EaseOutQuad(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * (2 - t)
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
