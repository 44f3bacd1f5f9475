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

// EnsureUser inserts the candidate unless its name is taken and returns the stored user.
func (s *Store) EnsureUser(ctx context.Context, candidate model.User) (model.User, error) {
	name := strings.TrimSpace(candidate.Name)
	if name == "" {
		return model.User{}, fmt.Errorf("user name is empty")
	}
	if candidate.ID == "" {
		return model.User{}, fmt.Errorf("user id is empty")
	}
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = time.Now()
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, created_at) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING`,
		candidate.ID, name, candidate.CreatedAt.UTC().Format(timeLayout)); err != nil {
		return model.User{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM users WHERE name = ?`, name)
	return scanUser(row)
}

// GetUser returns a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return user, err
}

func scanUser(row rowScanner) (model.User, error) {
	var user model.User
	var createdAt string
	if err := row.Scan(&user.ID, &user.Name, &createdAt); err != nil {
		return model.User{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.User{}, err
	}
	user.CreatedAt = t
	return user, nil
}
