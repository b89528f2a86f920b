package board_test

import (
	"fmt"

	"github.com/vovakirdan/collapse/internal/games/collapse/board"
)

// testPalette is a five-color palette with numbered labels.
type testPalette struct{ n int }

func (p testPalette) Size() int { return p.n }

func (p testPalette) Sprite(key board.ColorKey) board.Sprite {
	return board.Sprite{Label: p.Label(key), Glyph: '#', Color: fmt.Sprint(int(key))}
}

func (p testPalette) Label(key board.ColorKey) string {
	return fmt.Sprintf("c%d", int(key))
}

// fakeRenderer records every call the board makes.
type fakeRenderer struct {
	next      board.Handle
	live      map[board.Handle]board.Point
	destroyed []board.Handle
	handlers  map[board.Handle]func()
	moved     int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		live:     make(map[board.Handle]board.Point),
		handlers: make(map[board.Handle]func()),
	}
}

func (r *fakeRenderer) CreateTileHandle(pos board.Point, _ board.Size, _ board.Sprite) board.Handle {
	r.next++
	r.live[r.next] = pos
	return r.next
}

func (r *fakeRenderer) DestroyHandle(h board.Handle) {
	delete(r.live, h)
	delete(r.handlers, h)
	r.destroyed = append(r.destroyed, h)
}

func (r *fakeRenderer) SetHandlePosition(h board.Handle, pos board.Point) {
	r.live[h] = pos
	r.moved++
}

func (r *fakeRenderer) BindPointerUp(h board.Handle, fn func()) {
	r.handlers[h] = fn
}

// click simulates a pointer-up on the renderable.
func (r *fakeRenderer) click(h board.Handle) {
	if fn, ok := r.handlers[h]; ok {
		fn()
	}
}

// seqRand replays a fixed sequence of values, wrapping around.
type seqRand struct {
	vals []int
	i    int
}

func (s *seqRand) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

// windowsRand replays the given windows in order, row-major.
func windowsRand(windows ...[][]int) *seqRand {
	var vals []int
	for _, w := range windows {
		for _, row := range w {
			vals = append(vals, row...)
		}
	}
	return &seqRand{vals: vals}
}

// fakeAnimator hands out completions the test closes by hand.
type fakeAnimator struct {
	played map[string][]board.Handle
	open   map[board.Handle]chan struct{}
}

func newFakeAnimator() *fakeAnimator {
	return &fakeAnimator{
		played: make(map[string][]board.Handle),
		open:   make(map[board.Handle]chan struct{}),
	}
}

func (a *fakeAnimator) Play(h board.Handle, effect string) board.Completion {
	a.played[effect] = append(a.played[effect], h)
	if effect != board.EffectDestroy {
		return board.Done()
	}
	ch := make(chan struct{})
	a.open[h] = ch
	return ch
}

func (a *fakeAnimator) finish(h board.Handle) {
	if ch, ok := a.open[h]; ok {
		close(ch)
		delete(a.open, h)
	}
}

func (a *fakeAnimator) finishAll() {
	for h := range a.open {
		a.finish(h)
	}
}

// unitGeometry places slot (r, c) at (c, r).
var unitGeometry = board.Geometry{CellW: 1, CellH: 1}

// newTestBoard builds a board whose windows have exactly the given colors.
func newTestBoard(size int, r *fakeRenderer, a board.Animator, windows ...[][]int) *board.Board {
	b, err := board.New(board.Config{
		Size:           size,
		InitialWindows: len(windows),
		Geometry:       unitGeometry,
	}, board.Deps{
		Palette:  testPalette{n: 5},
		Renderer: r,
		Animator: a,
		Rand:     windowsRand(windows...),
	})
	if err != nil {
		panic(err)
	}
	return b
}

// colors returns the board's colors; inactive slots read -1.
func colors(b *board.Board) [][]int {
	out := make([][]int, b.Rows())
	for r := range out {
		out[r] = make([]int, b.Size())
		for c := range out[r] {
			t := b.At(board.I(r, c))
			if t.Active {
				out[r][c] = int(t.Color)
			} else {
				out[r][c] = -1
			}
		}
	}
	return out
}
