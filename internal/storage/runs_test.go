package storage

import (
	"testing"
	"time"
)

func TestSaveRunRoundTrip(t *testing.T) {
	store := openTestStore(t)

	in := RunRecord{
		GameID:       "collapse",
		Player:       "ann",
		Seed:         1234,
		BoardSize:    6,
		Score:        860,
		Moves:        31,
		TilesCleared: 140,
		LargestGroup: 11,
		Windows:      12,
		EndReason:    EndStuck,
		Duration:     95 * time.Second,
	}

	id, err := store.SaveRun(in)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunByID() returned nil for a saved run")
	}

	in.ID = id
	in.CreatedAt = got.CreatedAt
	if *got != in {
		t.Errorf("RunByID() = %+v\nwant %+v", *got, in)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not populated")
	}
}

func TestRunByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.RunByID(999)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("RunByID(missing) = %+v, want nil", got)
	}
}

func TestRecentRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []RunRecord{
		{GameID: "collapse", Player: "ann", BoardSize: 6, Score: 10, EndReason: EndStuck},
		{GameID: "collapse", Player: "bob", BoardSize: 6, Score: 20, EndReason: EndQuit},
		{GameID: "collapse", Player: "ann", BoardSize: 6, Score: 30, EndReason: EndRestart},
		{GameID: "collapse_endless", Player: "ann", BoardSize: 8, Score: 40, EndReason: EndQuit},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		game   string
		player string
		limit  int
		want   []int
	}{
		{"all players newest first", "collapse", "", 10, []int{30, 20, 10}},
		{"one player", "collapse", "ann", 10, []int{30, 10}},
		{"limit", "collapse", "", 2, []int{30, 20}},
		{"other mode", "collapse_endless", "", 0, []int{40}},
		{"unknown player", "collapse", "eve", 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.RecentRuns(tt.game, tt.player, tt.limit)
			if err != nil {
				t.Fatalf("RecentRuns() failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("RecentRuns() returned %d runs, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if got[i].Score != w {
					t.Errorf("run[%d].Score = %d, want %d", i, got[i].Score, w)
				}
			}
		})
	}
}

func TestGetGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("collapse")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.RunsCount != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveRun(RunRecord{GameID: "collapse", BoardSize: 6, Score: 100, TilesCleared: 40, LargestGroup: 5, EndReason: EndStuck})
	store.SaveRun(RunRecord{GameID: "collapse", BoardSize: 6, Score: 300, TilesCleared: 60, LargestGroup: 9, EndReason: EndStuck})

	stats, err := store.GetGameStats("collapse")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.RunsCount != 2 {
		t.Errorf("RunsCount = %d, want 2", stats.RunsCount)
	}
	if stats.HighScore != 300 {
		t.Errorf("HighScore = %d, want 300", stats.HighScore)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
	if stats.TilesCleared != 100 {
		t.Errorf("TilesCleared = %d, want 100", stats.TilesCleared)
	}
	if stats.LargestGroup != 9 {
		t.Errorf("LargestGroup = %d, want 9", stats.LargestGroup)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed was not populated")
	}
}
