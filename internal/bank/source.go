package bank

import (
	"context"
	"fmt"
	"os"

	"github.com/verte-zerg/wordwise/internal/model"
)

// Source supplies questions for a difficulty. Implementations never fail:
// errors are logged and an empty pool is returned.
type Source interface {
	Questions(ctx context.Context, difficulty model.Difficulty) []model.Question
}

// QuestionRepository is the remote or local table backing a Repo source.
type QuestionRepository interface {
	ListQuestions(ctx context.Context, filter model.QuestionFilter) ([]model.Question, error)
}

// Static serves a fixed pool.
type Static []model.Question

// Questions implements Source.
func (s Static) Questions(_ context.Context, difficulty model.Difficulty) []model.Question {
	return Filter(s, FilterForDifficulty(difficulty))
}

// Repo fetches questions from a repository.
type Repo struct {
	Repository QuestionRepository
	Limit      int
}

// Questions implements Source.
func (r Repo) Questions(ctx context.Context, difficulty model.Difficulty) []model.Question {
	questions, err := r.Repository.ListQuestions(ctx, model.QuestionFilter{Difficulty: difficulty, Limit: r.Limit})
	if err != nil {
		logErrf("failed to load questions: %v\n", err)
		return nil
	}
	return questions
}

// Fallback uses Secondary when Primary has nothing for the difficulty.
type Fallback struct {
	Primary   Source
	Secondary Source
}

// Questions implements Source.
func (f Fallback) Questions(ctx context.Context, difficulty model.Difficulty) []model.Question {
	if questions := f.Primary.Questions(ctx, difficulty); len(questions) > 0 {
		return questions
	}
	return f.Secondary.Questions(ctx, difficulty)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
