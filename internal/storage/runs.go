package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run end reasons.
const (
	EndStuck   = "stuck"   // no move left and the board may not grow
	EndQuit    = "quit"    // player left mid-run
	EndRestart = "restart" // player restarted mid-run
)

// RunRecord is the summary of one finished game.
type RunRecord struct {
	ID           int64
	GameID       string
	Player       string
	Seed         int64
	BoardSize    int
	Score        int
	Moves        int // selections that removed a group
	TilesCleared int
	LargestGroup int
	Windows      int // windows stacked when the run ended
	EndReason    string
	Duration     time.Duration
	CreatedAt    time.Time
}

// GameStats contains aggregated statistics over a game's runs.
type GameStats struct {
	GameID       string
	RunsCount    int
	HighScore    int
	AvgScore     float64
	TilesCleared int64
	LargestGroup int
	LastPlayed   time.Time
}

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs
		 (game_id, player, seed, board_size, score, moves, tiles_cleared, largest_group, windows, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID,
		r.Player,
		r.Seed,
		r.BoardSize,
		r.Score,
		r.Moves,
		r.TilesCleared,
		r.LargestGroup,
		r.Windows,
		r.EndReason,
		int64(r.Duration/time.Second),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, game_id, player, seed, board_size, score, moves, tiles_cleared,
		        largest_group, windows, end_reason, duration_secs, created_at`

func scanRun(sc interface{ Scan(...any) error }) (RunRecord, error) {
	var r RunRecord
	var secs int64
	var createdAt any
	err := sc.Scan(
		&r.ID,
		&r.GameID,
		&r.Player,
		&r.Seed,
		&r.BoardSize,
		&r.Score,
		&r.Moves,
		&r.TilesCleared,
		&r.LargestGroup,
		&r.Windows,
		&r.EndReason,
		&secs,
		&createdAt,
	)
	r.Duration = time.Duration(secs) * time.Second
	r.CreatedAt = parseTime(createdAt)
	return r, err
}

// RunByID retrieves a run by its ID. Returns nil if there is none.
func (s *Store) RunByID(id int64) (*RunRecord, error) {
	r, err := scanRun(s.db.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE id = ?`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// RecentRuns retrieves the most recent runs of a game, newest first.
// An empty player matches every player.
func (s *Store) RecentRuns(gameID, player string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE game_id = ? AND (? = '' OR player = ?)
		 ORDER BY id DESC
		 LIMIT ?`,
		gameID, player, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(tiles_cleared), 0), COALESCE(MAX(largest_group), 0), MAX(created_at)
		 FROM runs WHERE game_id = ?`,
		gameID,
	).Scan(&stats.RunsCount, &stats.HighScore, &stats.AvgScore, &stats.TilesCleared, &stats.LargestGroup, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}
