package main

import (
	"context"
	"fmt"

	"github.com/verte-zerg/wordwise/internal/api"
	"github.com/verte-zerg/wordwise/internal/config"
	"github.com/verte-zerg/wordwise/internal/identity"
	"github.com/verte-zerg/wordwise/internal/model"
	"github.com/verte-zerg/wordwise/internal/results"
	"github.com/verte-zerg/wordwise/internal/store"
)

type questionRepository interface {
	ListQuestions(ctx context.Context, filter model.QuestionFilter) ([]model.Question, error)
	CountQuestions(ctx context.Context) (int, error)
	CreateQuestion(ctx context.Context, q model.Question) (int64, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

// backend is either the local SQLite store or a remote wordwise server.
type backend struct {
	questions questionRepository
	results   results.Repository
	// users is nil for remote backends; identities then stay local.
	users identity.UserStore
	close func() error
}

func openBackend() (*backend, error) {
	if remoteURL != "" {
		client := api.NewClient(remoteURL, nil)
		return &backend{
			questions: client,
			results:   client,
			close:     func() error { return nil },
		}, nil
	}
	path := dbPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return &backend{
		questions: st,
		results:   st,
		users:     st,
		close:     st.Close,
	}, nil
}

func (b *backend) closeQuietly() {
	if cerr := b.close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}
