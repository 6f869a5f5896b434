// Package storage provides SQLite-based persistence for the leaderboard and
// the history of played runs. Uses the pure-Go modernc.org/sqlite driver to
// avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
)

// Store manages the SQLite database connection. It implements engine.ScoreStore
// and engine.ScoreUpdater and is safe for concurrent use by several sessions.
type Store struct {
	db *sql.DB
}

var (
	_ engine.ScoreStore   = (*Store)(nil)
	_ engine.ScoreUpdater = (*Store)(nil)
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// End reasons recorded for a run.
const (
	EndCollision = "collision"
	EndAborted   = "aborted"
)

// Run is one finished game.
type Run struct {
	ID        int64     `json:"id"`
	Player    string    `json:"player"` // Local user, SSH user or web player name
	Score     int       `json:"score"`
	Ticks     uint64    `json:"ticks"`
	EndReason string    `json:"end_reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats aggregates the run history.
type Stats struct {
	Games      int       `json:"games"`
	HighScore  int       `json:"high_score"`
	AvgScore   float64   `json:"avg_score"`
	TotalScore int64     `json:"total_score"`
	LastPlayed time.Time `json:"last_played"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("storage: empty database path")
	}

	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; sessions queue on the single connection
	// instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS top_scores (
			position INTEGER PRIMARY KEY,
			initials TEXT NOT NULL,
			score INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the leaderboard, best first.
func (s *Store) Load() ([]engine.ScoreEntry, error) {
	return loadTop(s.db)
}

// Save replaces the leaderboard with entries in a single transaction.
func (s *Store) Save(entries []engine.ScoreEntry) error {
	return s.UpdateScores(func([]engine.ScoreEntry) ([]engine.ScoreEntry, error) {
		return entries, nil
	})
}

// UpdateScores reads the leaderboard, passes it to fn and stores the result
// in one transaction. Concurrent updates queue on the single connection, so
// an update never overwrites entries it did not see.
func (s *Store) UpdateScores(fn func(current []engine.ScoreEntry) ([]engine.ScoreEntry, error)) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	//nolint:errcheck // Rollback after Commit is a no-op
	defer tx.Rollback()

	current, err := loadTop(tx)
	if err != nil {
		return err
	}
	entries, err := fn(current)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM top_scores"); err != nil {
		return fmt.Errorf("storage: cannot clear top scores: %w", err)
	}
	for i, e := range entries {
		if i >= engine.MaxTopScores {
			break
		}
		if _, err := tx.Exec(
			"INSERT INTO top_scores (position, initials, score) VALUES (?, ?, ?)",
			i+1, e.Initials, e.Score,
		); err != nil {
			return fmt.Errorf("storage: cannot save score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit top scores: %w", err)
	}
	return nil
}

func loadTop(q querier) ([]engine.ScoreEntry, error) {
	rows, err := q.Query(
		`SELECT initials, score
		 FROM top_scores
		 ORDER BY position
		 LIMIT ?`,
		engine.MaxTopScores,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query top scores: %w", err)
	}
	defer rows.Close()

	var entries []engine.ScoreEntry
	for rows.Next() {
		var e engine.ScoreEntry
		if err := rows.Scan(&e.Initials, &e.Score); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RecordRun stores a finished run and returns its ID.
func (s *Store) RecordRun(run Run) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (player, score, ticks, end_reason) VALUES (?, ?, ?, ?)",
		run.Player, run.Score, int64(run.Ticks), run.EndReason,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns returns the latest runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, player, score, ticks, end_reason, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ticks int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Player, &r.Score, &ticks, &r.EndReason, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Ticks = uint64(ticks)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// Stats aggregates every recorded run.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at)
		 FROM runs`,
	).Scan(&stats.Games, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// Clear deletes the leaderboard and the run history.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM top_scores; DELETE FROM runs;"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
