package collapse

import (
	"time"

	"github.com/vovakirdan/collapse/internal/storage"
)

// GroupScore returns the points for removing a group of n tiles.
// Bigger groups pay quadratically: 2 tiles score 2, 5 tiles score 20.
func GroupScore(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1)
}

// Stats counts what happened during a run.
type Stats struct {
	Moves        int // selections that removed a group
	TilesCleared int
	LargestGroup int
	Clears       int // selections that emptied the visible window
}

func (s *Stats) record(n int, cleared bool) {
	s.Moves++
	s.TilesCleared += n
	s.LargestGroup = max(s.LargestGroup, n)
	if cleared {
		s.Clears++
	}
}

// Stats returns the counters of the current run.
func (g *Game) Stats() Stats {
	return g.stats
}

// RunRecord summarizes the current run for storage. The platform fills
// in the player name and overrides the end reason when the run is cut short.
func (g *Game) RunRecord() storage.RunRecord {
	rec := storage.RunRecord{
		GameID:       g.ID(),
		Seed:         g.runtime.Seed,
		BoardSize:    g.cfg.Board.Size,
		Score:        g.score,
		Moves:        g.stats.Moves,
		TilesCleared: g.stats.TilesCleared,
		LargestGroup: g.stats.LargestGroup,
		EndReason:    storage.EndQuit,
	}
	if g.board != nil {
		rec.Windows = g.board.Windows()
	}
	if g.gameOver {
		rec.EndReason = storage.EndStuck
	}
	if rate := g.runtime.TickRate; rate > 0 {
		rec.Duration = time.Duration(g.tick) * time.Second / time.Duration(rate)
	}
	return rec
}
