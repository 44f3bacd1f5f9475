package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/wordwise/internal/model"
)

// InsertResult stores a completed game snapshot and returns its id.
func (s *Store) InsertResult(ctx context.Context, snap model.Snapshot) (int64, error) {
	snap = normalizeSnapshot(snap)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO game_results (user_id, name, score, best_streak, total_games_played, difficulty, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.UserID,
		snap.Name,
		snap.Score,
		snap.BestStreak,
		snap.GamesPlayed,
		string(snap.Difficulty),
		snap.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetResult returns a stored snapshot by id.
func (s *Store) GetResult(ctx context.Context, id int64) (model.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, score, best_streak, total_games_played, difficulty, created_at
		 FROM game_results WHERE id = ?`, id)
	snap, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, ErrNotFound
	}
	return snap, err
}

// ListResults returns snapshots newest first.
func (s *Store) ListResults(ctx context.Context, cfg model.HistoryConfig) ([]model.Snapshot, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, cfg.UserID)
	}
	if cfg.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, string(cfg.Difficulty))
	}
	query := fmt.Sprintf(`SELECT id, user_id, name, score, best_streak, total_games_played, difficulty, created_at
		FROM game_results
		WHERE %s
		ORDER BY created_at DESC, id DESC`, strings.Join(clauses, " AND "))
	if cfg.Last > 0 {
		query += " LIMIT ?"
		args = append(args, cfg.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var snaps []model.Snapshot
	for rows.Next() {
		snap, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snaps, nil
}

// UpdateResult overwrites the mutable fields of a stored snapshot.
func (s *Store) UpdateResult(ctx context.Context, snap model.Snapshot) error {
	snap = normalizeSnapshot(snap)
	res, err := s.db.ExecContext(ctx,
		`UPDATE game_results SET name = ?, score = ?, best_streak = ?, total_games_played = ?, difficulty = ?
		 WHERE id = ?`,
		snap.Name, snap.Score, snap.BestStreak, snap.GamesPlayed, string(snap.Difficulty), snap.ID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// DeleteResult removes a stored snapshot.
func (s *Store) DeleteResult(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM game_results WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func scanResult(row rowScanner) (model.Snapshot, error) {
	var snap model.Snapshot
	var difficulty, createdAt string
	if err := row.Scan(
		&snap.ID,
		&snap.UserID,
		&snap.Name,
		&snap.Score,
		&snap.BestStreak,
		&snap.GamesPlayed,
		&difficulty,
		&createdAt,
	); err != nil {
		return model.Snapshot{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Snapshot{}, err
	}
	snap.Difficulty = model.Difficulty(difficulty)
	snap.CreatedAt = t
	return snap, nil
}

func normalizeSnapshot(snap model.Snapshot) model.Snapshot {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	if snap.Difficulty == "" {
		snap.Difficulty = model.DifficultyAll
	}
	if strings.TrimSpace(snap.Name) == "" {
		snap.Name = "Game Result " + snap.CreatedAt.UTC().Format(time.RFC3339)
	}
	return snap
}
