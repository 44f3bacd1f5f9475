// Package results persists finished games and reads them back as history.
package results

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/verte-zerg/wordwise/internal/model"
	"github.com/verte-zerg/wordwise/internal/stats"
)

// Repository is the storage behind a Service. Both the SQLite store and the
// HTTP client satisfy it.
type Repository interface {
	InsertResult(ctx context.Context, snap model.Snapshot) (int64, error)
	ListResults(ctx context.Context, cfg model.HistoryConfig) ([]model.Snapshot, error)
	UpdateResult(ctx context.Context, snap model.Snapshot) error
	DeleteResult(ctx context.Context, id int64) error
}

// Service wraps a Repository.
type Service struct {
	repo   Repository
	errOut io.Writer
}

// NewService returns a Service that logs read failures to stderr.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, errOut: os.Stderr}
}

// Save stores a snapshot.
func (s *Service) Save(ctx context.Context, snap model.Snapshot) error {
	if _, err := s.repo.InsertResult(ctx, snap); err != nil {
		return fmt.Errorf("failed to save game result: %w", err)
	}
	return nil
}

// History returns snapshots newest first. Failures are logged and yield an empty list.
func (s *Service) History(ctx context.Context, cfg model.HistoryConfig) []model.Snapshot {
	snaps, err := s.repo.ListResults(ctx, cfg)
	if err != nil {
		s.logErrf("failed to load game history: %v\n", err)
		return []model.Snapshot{}
	}
	if snaps == nil {
		return []model.Snapshot{}
	}
	return snaps
}

// StatsRepository is implemented by repositories that aggregate on their side.
type StatsRepository interface {
	Stats(ctx context.Context, userID string) (model.UserStats, error)
}

// Stats aggregates every stored game of a user.
func (s *Service) Stats(ctx context.Context, userID string) (model.UserStats, error) {
	if sr, ok := s.repo.(StatsRepository); ok {
		st, err := sr.Stats(ctx, userID)
		if err != nil {
			return model.UserStats{}, fmt.Errorf("failed to load stats: %w", err)
		}
		return st, nil
	}
	snaps, err := s.repo.ListResults(ctx, model.HistoryConfig{UserID: userID})
	if err != nil {
		return model.UserStats{}, fmt.Errorf("failed to load game history: %w", err)
	}
	return stats.Aggregate(snaps), nil
}

// Lifetime seeds the counters of a new session from stored history.
func (s *Service) Lifetime(ctx context.Context, userID string) model.Lifetime {
	st, err := s.Stats(ctx, userID)
	if err != nil {
		s.logErrf("%v\n", err)
		return model.Lifetime{}
	}
	return model.Lifetime{BestStreak: st.BestStreak, GamesPlayed: st.GamesPlayed}
}

// Update overwrites a stored snapshot.
func (s *Service) Update(ctx context.Context, snap model.Snapshot) error {
	if err := s.repo.UpdateResult(ctx, snap); err != nil {
		return fmt.Errorf("failed to update game result %d: %w", snap.ID, err)
	}
	return nil
}

// Delete removes a stored snapshot.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteResult(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game result %d: %w", id, err)
	}
	return nil
}

func (s *Service) logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(s.errOut, format, args...); err != nil {
		// Best-effort logging.
		_ = err
	}
}
