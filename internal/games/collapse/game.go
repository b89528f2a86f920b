// Package collapse is the tile-collapse puzzle: pick a tile to remove its
// same-colored group, let the columns fall and keep the board alive as
// fresh windows of tiles stack up.
package collapse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/collapse/internal/animation"
	"github.com/vovakirdan/collapse/internal/assets"
	"github.com/vovakirdan/collapse/internal/config"
	"github.com/vovakirdan/collapse/internal/core"
	"github.com/vovakirdan/collapse/internal/games/collapse/board"
	"github.com/vovakirdan/collapse/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "classic" // growth capped by max_windows, game over when stuck
	ModeEndless Mode = "endless" // unlimited windows
)

// hintTicks is how long a hinted group stays highlighted (~1s).
const hintTicks = 60

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// sizeOverride replaces board.size when positive
var sizeOverride int

// logger is shared by every game instance
var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, ok := config.ParsePreset(preset)
	if !ok || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetSize overrides the configured board size. 0 keeps the config value.
func SetSize(n int) {
	sizeOverride = n
}

// SetLogger routes game and board logs to l.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

func init() {
	registry.Register("collapse", func() registry.Game {
		return New()
	})
	registry.Register("collapse_endless", func() registry.Game {
		return NewEndless()
	})
}

// Game implements the collapse puzzle on top of the board package.
type Game struct {
	mode    Mode
	preset  config.DifficultyPreset // per-instance override of difficultyPreset
	runtime core.RuntimeConfig
	cfg     config.CollapseConfig
	rng     *rand.Rand
	tick    uint64
	logger  *log.Logger

	palette    *assets.Palette
	layer      *tileLayer
	player     *animation.Player
	board      *board.Board
	ctrl       *board.Controller
	difficulty *config.DifficultyManager
	dims       map[string]string // tile hex -> faded hex

	score         int
	stats         Stats
	cursor        board.Index // local to the visible window
	hint          *board.Mask
	hintLeft      int
	visibleBefore int // active visible tiles before the current selection
	message       string

	gameOver bool
	paused   bool
	tooSmall bool
	err      error // config or asset failure; the game only renders it

	// Layout (computed from screen size)
	boardX, boardY int
	boardW, boardH int
	minW, minH     int
}

// New creates a classic collapse game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewEndless creates an endless collapse game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

// SetPreset overrides the difficulty preset for this instance only; it
// applies from the next Reset. Empty or unknown names fall back to the
// global preset.
func (g *Game) SetPreset(preset string) {
	p, ok := config.ParsePreset(preset)
	if !ok || preset == "" {
		p = ""
	}
	g.preset = p
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "collapse_endless"
	}
	return "collapse"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Collapse (Endless)"
	}
	return "Collapse"
}

// Description returns a one-line summary for listings.
func (g *Game) Description() string {
	if g.mode == ModeEndless {
		return "Clear color groups, the board never stops growing"
	}
	return "Clear color groups before the stack runs out of moves"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.logger = logger.With("game", g.ID())
	g.tick = 0
	g.score = 0
	g.stats = Stats{}
	g.hint = nil
	g.hintLeft = 0
	g.message = ""
	g.gameOver = false
	g.paused = false
	g.err = nil
	g.board = nil
	g.ctrl = nil

	cfg, err := g.loadConfig()
	if err != nil {
		g.fail(err)
		return
	}
	g.cfg = cfg

	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	pal, err := assets.Load(context.Background(), cfg.Palette)
	if err != nil {
		g.fail(fmt.Errorf("load palette: %w", err))
		return
	}
	g.palette = pal
	g.dims = make(map[string]string, pal.Len())
	for i := range pal.Len() {
		e := pal.Entry(board.ColorKey(i))
		g.dims[e.Hex] = e.Dim
	}

	g.player = animation.NewPlayer(g.logger,
		animation.Clip{Name: board.EffectScaleIn, Ticks: cfg.Animation.ScaleInTicks},
		animation.Clip{Name: board.EffectDestroy, Ticks: cfg.Animation.DestroyTicks},
		animation.Clip{Name: board.EffectMove, Ticks: cfg.Animation.MoveTicks},
	)
	g.layer = newTileLayer(g.player.Stop)
	g.updateColors()

	b, err := board.New(board.Config{
		Size:             cfg.Board.Size,
		InitialWindows:   cfg.Board.InitialWindows,
		Geometry:         g.geometry(),
		ValidateSolvable: cfg.Board.ValidateSolvable,
		SolvableAttempts: cfg.Board.SolvableAttempts,
	}, board.Deps{
		Palette:  pal,
		Renderer: g.layer,
		Animator: g.player,
		Rand:     g.rng,
		Logger:   g.logger,
	})
	if err != nil {
		g.fail(err)
		return
	}
	g.board = b

	g.ctrl = board.NewController(b, board.ControllerConfig{
		Refill:     board.RefillPolicy(cfg.Board.Refill),
		MaxWindows: cfg.Board.MaxWindows,
	}, g.player, g.logger)
	g.ctrl.OnSettled(g.onSettled)

	g.cursor = board.I(cfg.Board.Size/2, cfg.Board.Size/2)
	g.calculateLayout()
	g.logger.Info("game started", "size", cfg.Board.Size, "seed", runtime.Seed, "max_windows", cfg.Board.MaxWindows)
}

// loadConfig applies CLI overrides and the mode to the loaded config.
func (g *Game) loadConfig() (config.CollapseConfig, error) {
	cfg, err := config.LoadCollapse(configPath)
	if err != nil {
		// An explicit --config that fails is reported, the search path is not.
		return cfg, err
	}

	preset := difficultyPreset
	if g.preset != "" {
		preset = g.preset
	}
	if preset != "" {
		config.ApplyCollapsePreset(&cfg, preset)
	}
	if sizeOverride > 0 {
		cfg.Board.Size = sizeOverride
	}
	if g.mode == ModeEndless {
		cfg.Board.MaxWindows = 0
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (g *Game) fail(err error) {
	g.err = err
	g.logger.Error("cannot start game", "error", err)
}

// Err returns the error that keeps the game from starting, if any.
func (g *Game) Err() error {
	return g.err
}

// geometry lays tiles out in terminal cells, relative to the board's
// top-left corner.
func (g *Game) geometry() board.Geometry {
	l := g.cfg.Layout
	return board.Geometry{
		CellW: float64(l.CellWidth),
		CellH: float64(l.CellHeight),
		GapX:  float64(l.GapX),
		GapY:  float64(l.GapY),
	}
}

// calculateLayout centers the board below the HUD.
func (g *Game) calculateLayout() {
	n := g.cfg.Board.Size
	l := g.cfg.Layout
	g.boardW = n*l.CellWidth + (n-1)*l.GapX
	g.boardH = n*l.CellHeight + (n-1)*l.GapY

	g.minW = max(g.boardW+4, 32)
	g.minH = g.boardH + hudHeight + 3
	g.tooSmall = g.runtime.ScreenW < g.minW || g.runtime.ScreenH < g.minH

	g.boardX = (g.runtime.ScreenW - g.boardW) / 2
	g.boardY = hudHeight + 1
}

// Resize re-centers the board for a new screen size without ending the run.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	if g.board == nil {
		return
	}
	g.calculateLayout()
}

// updateColors lets difficulty decide how many palette colors new
// windows draw from.
func (g *Game) updateColors() {
	windows := 0
	if g.board != nil {
		windows = g.board.Windows()
	}
	g.palette.SetActive(g.difficulty.Colors(g.palette.Len(), g.score, windows))
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.err != nil || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver {
		return core.StepResult{State: g.State(), Message: g.message}
	}

	if !g.ctrl.Busy() {
		g.visibleBefore = g.visibleActive()
	}

	g.moveCursor(in)
	if in.Has(core.ActionHint) {
		g.showHint()
	}
	for _, p := range in.Pointers {
		g.pointerUp(p)
	}
	if in.Has(core.ActionSelect) {
		g.selectAt(g.cursor)
	}

	g.player.Step()
	g.ctrl.Advance()
	g.updateColors()

	if g.hintLeft > 0 {
		g.hintLeft--
		if g.hintLeft == 0 {
			g.hint = nil
		}
	}

	if g.ctrl.Stuck() && !g.ctrl.Busy() {
		g.gameOver = true
		g.message = "No moves left"
		g.logger.Info("game over", "score", g.score, "moves", g.stats.Moves, "windows", g.board.Windows())
	}

	return core.StepResult{State: g.State(), Message: g.message}
}

// moveCursor handles the direction actions.
func (g *Game) moveCursor(in core.InputFrame) {
	n := g.cfg.Board.Size
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Row--
	case in.Has(core.ActionDown):
		g.cursor.Row++
	case in.Has(core.ActionLeft):
		g.cursor.Col--
	case in.Has(core.ActionRight):
		g.cursor.Col++
	}
	g.cursor.Row = core.Clamp(g.cursor.Row, 0, n-1)
	g.cursor.Col = core.Clamp(g.cursor.Col, 0, n-1)
}

// selectAt selects the tile at a visible-window position.
func (g *Game) selectAt(local board.Index) {
	abs := g.board.VisibleMapper().Denormalize(local)
	out, err := g.ctrl.Select(abs)
	switch {
	case errors.Is(err, board.ErrBusy):
		return
	case err != nil:
		g.logger.Warn("selection failed", "index", abs, "error", err)
		return
	case !out.Matched:
		g.message = "No neighbors"
	}
}

// pointerUp dispatches a mouse release through the tile under it.
func (g *Game) pointerUp(p core.Pointer) {
	if !g.boardRect().Contains(p.X, p.Y) {
		return
	}
	pt := g.toBoard(p.X, p.Y)

	if idx, ok := g.geometry().Hit(pt); ok {
		g.cursor = g.board.VisibleMapper().Normalize(idx)
	}
	if !g.layer.PointerUp(pt) {
		return
	}
	if !g.ctrl.Busy() && g.visibleActive() == g.visibleBefore {
		g.message = "No neighbors"
	}
}

// toBoard converts a screen cell to board render space.
func (g *Game) toBoard(x, y int) board.Point {
	return board.Point{
		X: float64(x - g.boardX),
		Y: float64(y-g.boardY) + g.scrollY(),
	}
}

// scrollY is the render-space offset of the visible window.
func (g *Game) scrollY() float64 {
	return g.geometry().Position(board.I(g.board.WindowStart(), 0)).Y
}

// showHint highlights the largest group and moves the cursor onto it.
func (g *Game) showHint() {
	groups := board.Groups(g.board.VisibleSnapshot())
	if len(groups) == 0 {
		g.message = "No moves"
		return
	}
	g.hint = groups[0]
	g.hintLeft = hintTicks
	g.cursor = g.hint.Cells()[0]
	g.message = fmt.Sprintf("Group of %d", g.hint.Len())
}

// onSettled scores a finished selection.
func (g *Game) onSettled(out board.Outcome) {
	n := len(out.Removed)
	cleared := n == g.visibleBefore
	pts := GroupScore(n)
	if cleared {
		pts += g.cfg.Scoring.ClearBonus
	}
	g.score += pts
	g.stats.record(n, cleared)
	g.hint = nil
	g.hintLeft = 0

	g.message = fmt.Sprintf("+%d for %d tiles", pts, n)
	if cleared {
		g.message = fmt.Sprintf("Window cleared! +%d", pts)
	}
	if out.Appended > 0 {
		g.message += "  new window"
	}
	g.logger.Debug("selection settled",
		"removed", n,
		"moves", len(out.Moves),
		"appended", out.Appended,
		"score", g.score,
	)
}

// visibleActive counts the active tiles in the visible window.
func (g *Game) visibleActive() int {
	count := 0
	for _, row := range g.board.VisibleSnapshot() {
		for _, c := range row {
			if c.Present {
				count++
			}
		}
	}
	return count
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused || g.tooSmall,
	}
}
