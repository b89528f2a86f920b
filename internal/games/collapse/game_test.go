package collapse

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/collapse/internal/config"
	"github.com/vovakirdan/collapse/internal/core"
	"github.com/vovakirdan/collapse/internal/games/collapse/board"
	"github.com/vovakirdan/collapse/internal/registry"
	"github.com/vovakirdan/collapse/internal/storage"
)

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed}
}

// useConfig points the game at a config file with the given YAML and
// isolates it from any user config.
func useConfig(t *testing.T, yaml string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() {
		SetConfigPath("")
		SetDifficultyPreset("")
		SetSize(0)
	})
	if yaml == "" {
		return
	}
	path := filepath.Join(t.TempDir(), "collapse.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	SetConfigPath(path)
}

func newTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	useConfig(t, "")
	g := New()
	g.Reset(testRuntime(seed))
	if err := g.Err(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	return g
}

func press(g *Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

func settle(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 100 && g.ctrl.Busy(); i++ {
		press(g)
	}
	if g.ctrl.Busy() {
		t.Fatal("selection did not settle within 100 ticks")
	}
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"collapse", "collapse_endless"} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, want %q", g.ID(), id)
		}
		if _, ok := g.(registry.Exporter); !ok {
			t.Errorf("%s does not implement Exporter", id)
		}
	}

	for _, info := range registry.List() {
		if info.ID == "collapse" && info.Description == "" {
			t.Error("collapse has no description")
		}
	}
}

func TestGroupScore(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 2},
		{3, 6},
		{5, 20},
		{10, 90},
	}
	for _, tt := range tests {
		if got := GroupScore(tt.n); got != tt.want {
			t.Errorf("GroupScore(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestResetBuildsBoard(t *testing.T) {
	g := newTestGame(t, 1)
	snap := g.Snapshot()

	if snap.State != StatePlaying {
		t.Errorf("State = %s, want playing", snap.State)
	}
	if snap.Windows < 2 {
		t.Errorf("Windows = %d, want at least 2", snap.Windows)
	}
	if len(snap.Visible) != 6 {
		t.Fatalf("visible rows = %d, want 6", len(snap.Visible))
	}
	for r, row := range snap.Visible {
		for c, v := range row {
			if v < 0 {
				t.Errorf("slot (%d,%d) empty at start", r, c)
			}
		}
	}
	if g.layer.Len() != g.board.ActiveCount() {
		t.Errorf("renderables = %d, active tiles = %d", g.layer.Len(), g.board.ActiveCount())
	}
	if snap.Cursor != board.I(3, 3) {
		t.Errorf("Cursor = %v, want (3,3)", snap.Cursor)
	}
}

func TestDefaultUsesFullPalette(t *testing.T) {
	g := newTestGame(t, 1)

	if g.palette.Size() != g.palette.Len() || g.palette.Len() != 5 {
		t.Fatalf("active colors = %d of %d, want 5 of 5", g.palette.Size(), g.palette.Len())
	}
	seen := make(map[board.ColorKey]bool)
	for r := range g.board.Rows() {
		for c := range g.board.Size() {
			if tile := g.board.At(board.I(r, c)); tile.Active {
				seen[tile.Color] = true
			}
		}
	}
	if len(seen) != 5 {
		t.Errorf("distinct colors on the board = %d, want 5", len(seen))
	}
}

func TestDifficultyLimitsColors(t *testing.T) {
	useConfig(t, "")
	SetDifficultyPreset("easy")

	g := New()
	g.Reset(testRuntime(7))
	if g.Err() != nil {
		t.Fatalf("Reset() failed: %v", g.Err())
	}

	// Easy starts with three of five colors.
	if g.palette.Size() != 3 {
		t.Fatalf("active colors = %d, want 3", g.palette.Size())
	}
	for _, row := range g.Snapshot().Visible {
		for _, v := range row {
			if v >= 3 {
				t.Fatalf("color %d outside the active palette", v)
			}
		}
	}
}

func TestFixedPresetUsesFullPalette(t *testing.T) {
	useConfig(t, "")
	SetDifficultyPreset("fixed")

	g := New()
	g.Reset(testRuntime(7))
	if g.Err() != nil {
		t.Fatalf("Reset() failed: %v", g.Err())
	}
	if g.palette.Size() != 5 {
		t.Errorf("active colors = %d, want 5", g.palette.Size())
	}
}

func TestInstancePresetOverridesGlobal(t *testing.T) {
	useConfig(t, "")
	SetDifficultyPreset("easy")

	g := New()
	g.SetPreset("fixed")
	g.Reset(testRuntime(7))
	if g.Err() != nil {
		t.Fatalf("Reset() failed: %v", g.Err())
	}
	if g.palette.Size() != 5 {
		t.Errorf("active colors = %d, want 5 with the fixed preset", g.palette.Size())
	}

	g.SetPreset("")
	g.Reset(testRuntime(7))
	if g.palette.Size() >= 5 {
		t.Errorf("active colors = %d, want the easy preset to limit colors", g.palette.Size())
	}
}

func TestSizeOverride(t *testing.T) {
	useConfig(t, "")
	SetSize(4)

	g := New()
	g.Reset(testRuntime(3))
	if len(g.Snapshot().Visible) != 4 {
		t.Errorf("visible rows = %d, want 4", len(g.Snapshot().Visible))
	}
}

func TestEndlessIgnoresMaxWindows(t *testing.T) {
	useConfig(t, "")
	g := NewEndless()
	g.Reset(testRuntime(1))
	if g.cfg.Board.MaxWindows != 0 {
		t.Errorf("MaxWindows = %d, want 0", g.cfg.Board.MaxWindows)
	}
	if g.ID() != "collapse_endless" {
		t.Errorf("ID() = %q", g.ID())
	}
}

func TestDeterministicSeed(t *testing.T) {
	play := func() Snapshot {
		g := newTestGame(t, 99)
		press(g, core.ActionHint)
		press(g, core.ActionSelect)
		for range 20 {
			press(g)
		}
		press(g, core.ActionLeft)
		press(g, core.ActionHint)
		press(g, core.ActionSelect)
		for range 20 {
			press(g)
		}
		return g.Snapshot()
	}

	a, b := play(), play()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed diverged:\n%+v\n%+v", a, b)
	}
}

func TestCursorClamps(t *testing.T) {
	g := newTestGame(t, 1)
	for range 10 {
		press(g, core.ActionUp)
		press(g, core.ActionLeft)
	}
	if g.cursor != board.I(0, 0) {
		t.Errorf("cursor = %v, want (0,0)", g.cursor)
	}
	for range 10 {
		press(g, core.ActionDown)
		press(g, core.ActionRight)
	}
	if g.cursor != board.I(5, 5) {
		t.Errorf("cursor = %v, want (5,5)", g.cursor)
	}
}

func TestSelectScoresGroup(t *testing.T) {
	g := newTestGame(t, 5)

	press(g, core.ActionHint)
	if g.hint == nil {
		t.Fatal("no hint on a fresh board")
	}
	n := g.hint.Len()
	if g.cursor != g.hint.Cells()[0] {
		t.Errorf("hint did not move the cursor")
	}

	press(g, core.ActionSelect)
	if !g.ctrl.Busy() {
		t.Fatal("selection should wait for destroy effects")
	}
	settle(t, g)

	if g.score != GroupScore(n) {
		t.Errorf("score = %d, want %d", g.score, GroupScore(n))
	}
	stats := g.Stats()
	if stats.Moves != 1 || stats.TilesCleared != n || stats.LargestGroup != n {
		t.Errorf("stats = %+v, want one move of %d tiles", stats, n)
	}
	if !strings.Contains(g.message, "tiles") {
		t.Errorf("message = %q", g.message)
	}
	if g.layer.Len() != g.board.ActiveCount() {
		t.Errorf("renderables = %d, active tiles = %d", g.layer.Len(), g.board.ActiveCount())
	}
}

func TestSelectIsolatedTile(t *testing.T) {
	g := newTestGame(t, 11)

	snap := g.board.VisibleSnapshot()
	var isolated *board.Index
	for r := range snap {
		for c := range snap[r] {
			if board.Match(snap, board.I(r, c)) == nil {
				idx := board.I(r, c)
				isolated = &idx
			}
		}
	}
	if isolated == nil {
		t.Skip("seed produced no isolated tile")
	}

	g.cursor = *isolated
	press(g, core.ActionSelect)

	if g.ctrl.Busy() || g.score != 0 {
		t.Errorf("isolated selection changed state: busy=%v score=%d", g.ctrl.Busy(), g.score)
	}
	if g.message != "No neighbors" {
		t.Errorf("message = %q, want No neighbors", g.message)
	}
}

func TestPointerUpSelects(t *testing.T) {
	g := newTestGame(t, 5)

	groups := board.Groups(g.board.VisibleSnapshot())
	if len(groups) == 0 {
		t.Fatal("no groups on a fresh board")
	}
	local := groups[0].Cells()[0]
	abs := g.board.VisibleMapper().Denormalize(local)
	rect := g.cellRect(g.geometry().Position(abs))

	in := core.NewInputFrame()
	in.PointerUp(rect.X+1, rect.Y)
	g.Step(in)

	if g.cursor != local {
		t.Errorf("cursor = %v, want %v", g.cursor, local)
	}
	if !g.ctrl.Busy() {
		t.Fatal("pointer-up on a group should start removal")
	}
	settle(t, g)
	if g.score != GroupScore(groups[0].Len()) {
		t.Errorf("score = %d, want %d", g.score, GroupScore(groups[0].Len()))
	}
}

func TestPointerOutsideBoardIgnored(t *testing.T) {
	g := newTestGame(t, 5)
	before := g.Snapshot()

	in := core.NewInputFrame()
	in.PointerUp(0, 0)
	in.PointerUp(g.boardX+g.boardW, g.boardY)
	g.Step(in)

	after := g.Snapshot()
	if g.ctrl.Busy() || !reflect.DeepEqual(before.Visible, after.Visible) {
		t.Error("pointer outside the board changed the game")
	}
}

func TestPause(t *testing.T) {
	g := newTestGame(t, 5)

	press(g, core.ActionPause)
	if !g.State().Paused || g.Snapshot().State != StatePaused {
		t.Fatal("game should be paused")
	}

	press(g, core.ActionHint, core.ActionSelect)
	if g.ctrl.Busy() || g.hint != nil {
		t.Error("input was handled while paused")
	}

	press(g, core.ActionPause)
	if g.State().Paused {
		t.Error("game should be resumed")
	}
}

func TestTooSmall(t *testing.T) {
	useConfig(t, "")
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 10, TickRate: 60, Seed: 1})

	if g.Snapshot().State != StatePausedSmall || !g.State().Paused {
		t.Errorf("State = %s, want paused_small_window", g.Snapshot().State)
	}

	s := core.NewScreen(20, 10)
	g.Render(s)
	if !strings.Contains(s.String(), "Window too small") {
		t.Errorf("render:\n%s", s.String())
	}
}

func TestResizeKeepsRun(t *testing.T) {
	g := newTestGame(t, 3)
	before := g.Snapshot().Visible

	g.Resize(20, 10)
	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("after shrink State = %s, want paused_small_window", g.Snapshot().State)
	}

	g.Resize(100, 30)
	if g.Snapshot().State != StatePlaying {
		t.Errorf("after grow State = %s, want playing", g.Snapshot().State)
	}
	if !reflect.DeepEqual(g.Snapshot().Visible, before) {
		t.Error("Resize changed the board")
	}
	if g.boardX != (100-g.boardW)/2 {
		t.Errorf("boardX = %d, want centered in 100 columns", g.boardX)
	}
}

func TestInvalidConfigRendersError(t *testing.T) {
	useConfig(t, "board:\n  size: 42\n")

	g := New()
	g.Reset(testRuntime(1))

	if !errors.Is(g.Err(), config.ErrInvalid) {
		t.Fatalf("Err() = %v, want ErrInvalid", g.Err())
	}
	if g.Snapshot().State != StateError {
		t.Errorf("State = %s, want error", g.Snapshot().State)
	}

	// Stepping a broken game is harmless.
	press(g, core.ActionSelect)

	s := core.NewScreen(80, 24)
	g.Render(s)
	if !strings.Contains(s.String(), "Cannot start Collapse") {
		t.Errorf("render:\n%s", s.String())
	}
}

func TestAssetFailureKeepsNoBoard(t *testing.T) {
	useConfig(t, "palette:\n  - name: broken\n    color: \"#zzzzzz\"\n")

	g := New()
	g.Reset(testRuntime(1))

	if g.Err() == nil {
		t.Fatal("expected a palette error")
	}
	if g.board != nil || g.ctrl != nil {
		t.Error("board built despite asset failure")
	}
	if !strings.Contains(g.Err().Error(), "load palette") {
		t.Errorf("Err() = %v", g.Err())
	}
}

func TestStuckEndsGame(t *testing.T) {
	useConfig(t, `
board:
  size: 2
  initial_windows: 2
  max_windows: 2
difficulty:
  enabled: false
palette:
  - name: blue
  - name: red
  - name: green
  - name: yellow
`)

	// A 2x2 window over four colors has no pair about a third of the time.
	for seed := int64(1); seed <= 200; seed++ {
		g := New()
		g.Reset(testRuntime(seed))
		if g.Err() != nil {
			t.Fatalf("Reset() failed: %v", g.Err())
		}
		if !g.ctrl.Stuck() {
			continue
		}

		res := press(g)
		if !res.State.GameOver {
			t.Fatalf("seed %d: stuck board did not end the game", seed)
		}
		if g.Snapshot().State != StateGameOver {
			t.Errorf("State = %s, want game_over", g.Snapshot().State)
		}
		if rec := g.RunRecord(); rec.EndReason != storage.EndStuck || rec.Windows != 2 {
			t.Errorf("RunRecord() = %+v", rec)
		}

		s := core.NewScreen(80, 24)
		g.Render(s)
		if !strings.Contains(s.String(), "NO MOVES LEFT") {
			t.Errorf("render:\n%s", s.String())
		}
		return
	}
	t.Fatal("no seed produced a stuck board")
}

func TestRunRecord(t *testing.T) {
	g := newTestGame(t, 5)
	press(g, core.ActionHint)
	press(g, core.ActionSelect)
	settle(t, g)
	for g.tick < 120 {
		press(g)
	}

	rec := g.RunRecord()
	if rec.GameID != "collapse" || rec.Seed != 5 || rec.BoardSize != 6 {
		t.Errorf("identity = %+v", rec)
	}
	if rec.Score != g.score || rec.Moves != 1 || rec.Windows != g.board.Windows() {
		t.Errorf("counters = %+v", rec)
	}
	if rec.EndReason != storage.EndQuit {
		t.Errorf("EndReason = %q, want quit", rec.EndReason)
	}
	if rec.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", rec.Duration)
	}
}

func TestRenderBoard(t *testing.T) {
	g := newTestGame(t, 5)
	for range 10 {
		press(g)
	}

	s := core.NewScreen(80, 24)
	g.Render(s)
	out := s.String()

	if !strings.Contains(out, "Score 0") || !strings.Contains(out, "Collapse") {
		t.Errorf("HUD missing:\n%s", out)
	}
	if s.Get(g.boardX-1, g.boardY-1) != '┌' {
		t.Errorf("frame corner = %q", s.Get(g.boardX-1, g.boardY-1))
	}

	// The top-left tile is filled with its palette color.
	tile := g.board.At(g.board.VisibleMapper().Denormalize(board.I(0, 0)))
	cell := s.GetCell(g.boardX, g.boardY)
	if cell.Style.BG != core.Color(g.palette.Entry(tile.Color).Hex) {
		t.Errorf("tile background = %q, want %q", cell.Style.BG, g.palette.Entry(tile.Color).Hex)
	}

	// Cursor brackets sit in the gaps around the middle tile.
	rect := g.cellRect(g.geometry().Position(g.board.VisibleMapper().Denormalize(g.cursor)))
	if s.Get(rect.X-1, rect.Y+1) != CursorLeft || s.Get(rect.Right(), rect.Y+1) != CursorRight {
		t.Errorf("cursor brackets missing around %v", rect)
	}
}

func TestExport(t *testing.T) {
	g := newTestGame(t, 5)
	now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	dir := t.TempDir()
	paths, err := g.Export(dir)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	want := filepath.Join(dir, "collapse_20260301_120000.png")
	if len(paths) != 1 || paths[0] != want {
		t.Fatalf("Export() = %v, want [%s]", paths, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("exported file missing: %v", err)
	}

	grid := g.ExportGrid()
	present := 0
	for _, row := range grid.Cells {
		for _, c := range row {
			if c.Present {
				present++
			}
		}
	}
	if present != g.visibleActive() {
		t.Errorf("exported %d tiles, visible window has %d", present, g.visibleActive())
	}
}
