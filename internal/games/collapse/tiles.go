package collapse

import (
	"sort"

	"github.com/vovakirdan/collapse/internal/games/collapse/board"
)

// sprite is the renderable behind one handle.
type sprite struct {
	pos  board.Point // current canonical position
	from board.Point // position before the last move
	size board.Size
	look board.Sprite
	onUp func()
}

// tileLayer is the board's Renderer: a handle table the game draws from
// and dispatches pointer-up events through.
type tileLayer struct {
	next      board.Handle
	sprites   map[board.Handle]*sprite
	onDestroy func(board.Handle)
}

// newTileLayer creates an empty layer. onDestroy, if set, runs before a
// renderable is dropped.
func newTileLayer(onDestroy func(board.Handle)) *tileLayer {
	return &tileLayer{
		sprites:   make(map[board.Handle]*sprite),
		onDestroy: onDestroy,
	}
}

// CreateTileHandle registers a new renderable.
func (l *tileLayer) CreateTileHandle(pos board.Point, size board.Size, look board.Sprite) board.Handle {
	l.next++
	l.sprites[l.next] = &sprite{pos: pos, from: pos, size: size, look: look}
	return l.next
}

// DestroyHandle drops the renderable.
func (l *tileLayer) DestroyHandle(h board.Handle) {
	if l.onDestroy != nil {
		l.onDestroy(h)
	}
	delete(l.sprites, h)
}

// SetHandlePosition moves the renderable and remembers where it came from.
func (l *tileLayer) SetHandlePosition(h board.Handle, pos board.Point) {
	if s, ok := l.sprites[h]; ok {
		s.from = s.pos
		s.pos = pos
	}
}

// BindPointerUp replaces the pointer-up handler.
func (l *tileLayer) BindPointerUp(h board.Handle, fn func()) {
	if s, ok := l.sprites[h]; ok {
		s.onUp = fn
	}
}

func (l *tileLayer) get(h board.Handle) (*sprite, bool) {
	s, ok := l.sprites[h]
	return s, ok
}

// Len returns the number of live renderables.
func (l *tileLayer) Len() int {
	return len(l.sprites)
}

// handles returns the live handles in creation order.
func (l *tileLayer) handles() []board.Handle {
	hs := make([]board.Handle, 0, len(l.sprites))
	for h := range l.sprites {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

// hit returns the renderable whose rectangle contains p.
func (l *tileLayer) hit(p board.Point) (board.Handle, bool) {
	for h, s := range l.sprites {
		if p.X >= s.pos.X && p.X < s.pos.X+s.size.W &&
			p.Y >= s.pos.Y && p.Y < s.pos.Y+s.size.H {
			return h, true
		}
	}
	return 0, false
}

// PointerUp fires the handler of the renderable under p.
// It returns false if nothing with a handler was hit.
func (l *tileLayer) PointerUp(p board.Point) bool {
	h, ok := l.hit(p)
	if !ok {
		return false
	}
	s := l.sprites[h]
	if s.onUp == nil {
		return false
	}
	s.onUp()
	return true
}
