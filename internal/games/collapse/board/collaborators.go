package board

// Handle is an opaque reference to a tile's renderable counterpart.
// The zero Handle means "no renderable".
type Handle uint64

// Point is a position in render space.
type Point struct {
	X float64
	Y float64
}

// Size is an extent in render space.
type Size struct {
	W float64
	H float64
}

// Sprite is the appearance the renderer should give a color key.
type Sprite struct {
	Label string // palette label, e.g. "blue"
	Glyph rune   // fill glyph for character renderers
	Color string // ANSI index or "#rrggbb" hex
}

// Renderer owns renderables. The board only creates, moves, destroys and
// binds them through handles.
type Renderer interface {
	// CreateTileHandle creates a renderable at pos and returns its handle.
	CreateTileHandle(pos Point, size Size, sprite Sprite) Handle

	// DestroyHandle releases the renderable. The handle must not be reused.
	DestroyHandle(h Handle)

	// SetHandlePosition moves the renderable to pos.
	SetHandlePosition(h Handle, pos Point)

	// BindPointerUp installs fn as the pointer-up handler of the renderable,
	// replacing any previous handler.
	BindPointerUp(h Handle, fn func())
}

// Palette provides the fixed set of tile colors.
type Palette interface {
	Size() int
	Sprite(key ColorKey) Sprite
	Label(key ColorKey) string
}

// Completion is closed when an effect has finished playing.
type Completion <-chan struct{}

// Effect names understood by animators.
const (
	EffectScaleIn = "scale-in"
	EffectDestroy = "destroy"
	EffectMove    = "move"
)

// Animator plays named effects on renderables.
type Animator interface {
	Play(h Handle, effect string) Completion
}

// IntnSource is the part of *rand.Rand the board needs.
type IntnSource interface {
	Intn(n int) int
}

var closed = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Done returns an already completed Completion.
func Done() Completion {
	return closed
}
