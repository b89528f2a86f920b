package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/collapse/internal/registry"
	"github.com/vovakirdan/collapse/internal/storage"
)

func scoreboardUpdate(t *testing.T, m ScoreboardModel, key string) ScoreboardModel {
	t.Helper()
	next, _ := m.Update(keyMsg(key))
	sb, ok := next.(ScoreboardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sb
}

func TestScoreboardViews(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveScore("fake", "ana", 42); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun(storage.RunRecord{
		GameID: "fake", Player: "ana", Score: 42, Moves: 7, LargestGroup: 5, EndReason: storage.EndStuck,
	}); err != nil {
		t.Fatal(err)
	}

	m := NewScoreboardModel(store, 100, 30)
	m.modes = []registry.GameInfo{{ID: "fake", Title: "Fake"}, {ID: "fake_endless", Title: "Fake Endless"}}
	m.load()

	view := m.View()
	for _, want := range []string{"HIGH SCORES", "ana", "42", "1 runs", "Fake Endless"} {
		if !strings.Contains(view, want) {
			t.Errorf("scores view missing %q", want)
		}
	}

	m = scoreboardUpdate(t, m, "v")
	view = m.View()
	for _, want := range []string{"RECENT RUNS", "Moves", storage.EndStuck} {
		if !strings.Contains(view, want) {
			t.Errorf("runs view missing %q", want)
		}
	}

	// The second mode has no data yet; the runs view stays selected.
	m = scoreboardUpdate(t, m, "tab")
	if m.mode != 1 {
		t.Fatalf("mode = %d after tab, want 1", m.mode)
	}
	if view := m.View(); !strings.Contains(view, "No runs recorded yet.") {
		t.Errorf("empty mode view = %q", view)
	}

	m = scoreboardUpdate(t, m, "tab")
	if m.mode != 0 || len(m.runs) != 1 {
		t.Errorf("tab should wrap to the first mode: mode=%d runs=%d", m.mode, len(m.runs))
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 20)
	if view := m.View(); !strings.Contains(view, "No scores recorded yet.") {
		t.Errorf("view = %q", view)
	}
}

func TestScoreboardBackAndQuit(t *testing.T) {
	tests := []struct {
		key       string
		goingBack bool
		quitting  bool
	}{
		{"esc", true, false},
		{"b", true, false},
		{"q", false, true},
		{"ctrl+c", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			m := scoreboardUpdate(t, NewScoreboardModel(nil, 80, 24), tc.key)
			if m.IsGoingBack() != tc.goingBack || m.IsQuitting() != tc.quitting {
				t.Errorf("goingBack=%v quitting=%v", m.IsGoingBack(), m.IsQuitting())
			}
			if m.View() != "" {
				t.Error("view should be empty after leaving")
			}
		})
	}
}
