package collapse

import "github.com/vovakirdan/collapse/internal/games/collapse/board"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateSettling    GameStateType = "settling"
	StateGameOver    GameStateType = "game_over"
	StatePaused      GameStateType = "paused"
	StatePausedSmall GameStateType = "paused_small_window"
	StateError       GameStateType = "error"
)

// Snapshot captures the game state for determinism testing and replay.
type Snapshot struct {
	Tick    uint64
	Mode    string
	Score   int
	Windows int
	Visible [][]int // color keys of the visible window, -1 for empty slots
	Cursor  board.Index
	Stats   Stats
	State   GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:  g.tick,
		Mode:  string(g.mode),
		Score: g.score,
		Stats: g.stats,
	}

	switch {
	case g.err != nil:
		s.State = StateError
		return s
	case g.tooSmall:
		s.State = StatePausedSmall
	case g.gameOver:
		s.State = StateGameOver
	case g.paused:
		s.State = StatePaused
	case g.ctrl.Busy():
		s.State = StateSettling
	default:
		s.State = StatePlaying
	}

	s.Windows = g.board.Windows()
	s.Cursor = g.cursor
	for _, row := range g.board.VisibleSnapshot() {
		out := make([]int, len(row))
		for c, cell := range row {
			out[c] = -1
			if cell.Present {
				out[c] = int(cell.Color)
			}
		}
		s.Visible = append(s.Visible, out)
	}
	return s
}
