// Package store handles SQLite persistence.
package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// timeLayout is fixed width so that created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for questions, results and users.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quizzes (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			question TEXT NOT NULL,
			correct_answer INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			category TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quiz_options (
			id INTEGER PRIMARY KEY,
			quiz_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			option_index INTEGER NOT NULL,
			option_text TEXT NOT NULL,
			UNIQUE (quiz_id, option_index)
		);`,
		`CREATE TABLE IF NOT EXISTS game_results (
			id INTEGER PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			best_streak INTEGER NOT NULL,
			total_games_played INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_difficulty ON quizzes(difficulty);`,
		`CREATE INDEX IF NOT EXISTS idx_game_results_user_created ON game_results(user_id, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = "?"
	}
	return strings.Join(marks, ",")
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

func rollback(tx *sql.Tx) {
	if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
		// Best-effort rollback.
		_ = rerr
	}
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
