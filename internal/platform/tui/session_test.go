package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/collapse/internal/config"
	"github.com/vovakirdan/collapse/internal/core"
	"github.com/vovakirdan/collapse/internal/registry"
	"github.com/vovakirdan/collapse/internal/storage"
)

// presetGame records the preset the session hands it.
type presetGame struct {
	fakeGame
	preset string
}

func (g *presetGame) SetPreset(p string) { g.preset = p }

var lastPresetGame *presetGame

func init() {
	registry.Register("fake", func() registry.Game {
		lastPresetGame = &presetGame{}
		return lastPresetGame
	})
}

func newTestSession(t *testing.T) SessionModel {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
	return NewSessionModel(store, cfg, Options{Player: "alice", ExportDir: t.TempDir()})
}

func sessionUpdate(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm, cmd
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	m := newTestSession(t)

	// Cycle the preset to hard, then start the game.
	m, _ = sessionUpdate(t, m, keyMsg("right"))
	if m.menu.Preset() != config.DifficultyHard {
		t.Fatalf("Preset() = %s, want hard", m.menu.Preset())
	}
	m, cmd := sessionUpdate(t, m, keyMsg("enter"))
	if m.current != screenGame {
		t.Fatalf("current = %v, want game", m.current)
	}
	if cmd == nil {
		t.Error("starting a game returned no tick command")
	}
	if lastPresetGame.preset != "hard" {
		t.Errorf("game preset = %q, want hard", lastPresetGame.preset)
	}

	// Quitting the game goes back to the menu, keeping the preset.
	m, cmd = sessionUpdate(t, m, keyMsg("q"))
	if m.current != screenMenu || m.quitting {
		t.Fatalf("after q: current = %v quitting = %v", m.current, m.quitting)
	}
	if cmd != nil {
		t.Error("leaving a game must not quit the session")
	}
	if m.menu.Preset() != config.DifficultyHard {
		t.Errorf("menu preset reset to %s", m.menu.Preset())
	}

	// A stale tick is ignored by the menu.
	m, _ = sessionUpdate(t, m, TickMsg{})
	if m.current != screenMenu {
		t.Error("tick left the menu")
	}

	m, cmd = sessionUpdate(t, m, keyMsg("q"))
	if !m.quitting || cmd == nil {
		t.Error("q in the menu should end the session")
	}
}

func TestSessionScoreboard(t *testing.T) {
	m := newTestSession(t)

	m, _ = sessionUpdate(t, m, keyMsg("tab"))
	if m.current != screenScores {
		t.Fatalf("current = %v, want scores", m.current)
	}
	if m.View() == "" {
		t.Error("empty scoreboard view")
	}

	m, cmd := sessionUpdate(t, m, keyMsg("esc"))
	if m.current != screenMenu || cmd != nil {
		t.Errorf("esc: current = %v cmd = %v, want menu and no command", m.current, cmd)
	}
}
