// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty tags a question or filters a session.
type Difficulty string

// Difficulty values. DifficultyAll is only valid as a session filter.
const (
	DifficultyAll    Difficulty = "all"
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the filter choices in menu order.
var Difficulties = []Difficulty{DifficultyAll, DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty normalizes a difficulty name. Empty input means all.
func ParseDifficulty(value string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(value))); d {
	case "":
		return DifficultyAll, nil
	case DifficultyAll, DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (expected all, easy, medium or hard)", value)
	}
}

// IsTag reports whether d may be attached to a question.
func (d Difficulty) IsTag() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Question is a single multiple-choice vocabulary question.
type Question struct {
	ID            int64      `json:"id" yaml:"id"`
	Text          string     `json:"question" yaml:"question"`
	Options       []string   `json:"options" yaml:"options"`
	CorrectAnswer int        `json:"correct_answer" yaml:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty" yaml:"difficulty"`
	Category      string     `json:"category" yaml:"category"`
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question needs at least 2 options, got %d", len(q.Options))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("correct answer %d out of range [0,%d)", q.CorrectAnswer, len(q.Options))
	}
	if !q.Difficulty.IsTag() {
		return fmt.Errorf("invalid difficulty %q", q.Difficulty)
	}
	return nil
}

// SessionConfig defines quiz session settings. Times are in ticks.
type SessionConfig struct {
	Difficulty    Difficulty
	QuestionCount int
	TimeLimit     int
	RevealDelay   int
}

// Session defaults.
const (
	DefaultQuestionCount = 5
	DefaultTimeLimit     = 30
	DefaultRevealDelay   = 2
)

// DefaultSessionConfig returns the standard five question, thirty tick game.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Difficulty:    DifficultyAll,
		QuestionCount: DefaultQuestionCount,
		TimeLimit:     DefaultTimeLimit,
		RevealDelay:   DefaultRevealDelay,
	}
}

// Lifetime holds counters that outlive a single session.
type Lifetime struct {
	BestStreak  int
	GamesPlayed int
}

// Snapshot is the record of one completed session.
type Snapshot struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Score       int        `json:"score"`
	BestStreak  int        `json:"best_streak"`
	GamesPlayed int        `json:"total_games_played"`
	Difficulty  Difficulty `json:"difficulty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UserStats aggregates stored snapshots.
type UserStats struct {
	GamesPlayed  int `json:"total_games_played"`
	BestStreak   int `json:"best_streak"`
	AverageScore int `json:"average_score"`
	TotalScore   int `json:"total_score"`
}

// HistoryConfig defines filters for result history.
type HistoryConfig struct {
	UserID     string
	Difficulty Difficulty
	Last       int
}

// QuestionFilter defines filters for question listing.
type QuestionFilter struct {
	Difficulty Difficulty
	Limit      int
}

// User is an authenticated player.
type User struct {
	ID        string    `json:"id" toml:"id"`
	Name      string    `json:"name" toml:"name"`
	CreatedAt time.Time `json:"created_at" toml:"created_at"`
}
