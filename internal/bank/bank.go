// Package bank provides question pools and sources.
package bank

import "github.com/verte-zerg/wordwise/internal/model"

// Builtin returns the bundled vocabulary questions.
func Builtin() []model.Question {
	return []model.Question{
		{
			ID:            1,
			Text:          "What does 'ubiquitous' mean?",
			Options:       []string{"Existing everywhere", "Very rare", "Extremely large", "Completely silent"},
			CorrectAnswer: 0,
			Difficulty:    model.DifficultyMedium,
			Category:      "definitions",
		},
		{
			ID:            2,
			Text:          "Which word is a synonym for 'ephemeral'?",
			Options:       []string{"Permanent", "Temporary", "Ancient", "Modern"},
			CorrectAnswer: 1,
			Difficulty:    model.DifficultyHard,
			Category:      "synonyms",
		},
		{
			ID:            3,
			Text:          "What is the antonym of 'verbose'?",
			Options:       []string{"Talkative", "Lengthy", "Concise", "Detailed"},
			CorrectAnswer: 2,
			Difficulty:    model.DifficultyMedium,
			Category:      "antonyms",
		},
		{
			ID:            4,
			Text:          "What does 'serendipity' mean?",
			Options:       []string{"Bad luck", "A pleasant surprise", "Hard work", "Deep thought"},
			CorrectAnswer: 1,
			Difficulty:    model.DifficultyEasy,
			Category:      "definitions",
		},
		{
			ID:            5,
			Text:          "Which word means 'having mixed feelings'?",
			Options:       []string{"Ecstatic", "Ambivalent", "Confident", "Indifferent"},
			CorrectAnswer: 1,
			Difficulty:    model.DifficultyHard,
			Category:      "definitions",
		},
		{
			ID:            6,
			Text:          "What is a synonym for 'meticulous'?",
			Options:       []string{"Careless", "Careful", "Quick", "Lazy"},
			CorrectAnswer: 1,
			Difficulty:    model.DifficultyMedium,
			Category:      "synonyms",
		},
		{
			ID:            7,
			Text:          "What does 'cacophony' refer to?",
			Options:       []string{"Beautiful music", "Harsh sounds", "Complete silence", "Soft whispers"},
			CorrectAnswer: 1,
			Difficulty:    model.DifficultyHard,
			Category:      "definitions",
		},
		{
			ID:            8,
			Text:          "Which word is the opposite of 'zenith'?",
			Options:       []string{"Peak", "Summit", "Nadir", "Height"},
			CorrectAnswer: 2,
			Difficulty:    model.DifficultyHard,
			Category:      "antonyms",
		},
	}
}

// FilterFunc returns true when a question should be kept.
type FilterFunc func(model.Question) bool

// FilterForDifficulty returns a filter for the given difficulty. DifficultyAll keeps everything.
func FilterForDifficulty(difficulty model.Difficulty) FilterFunc {
	if difficulty == model.DifficultyAll || difficulty == "" {
		return func(model.Question) bool { return true }
	}
	return func(q model.Question) bool { return q.Difficulty == difficulty }
}

// Filter returns the questions of pool that keep returns true for.
func Filter(pool []model.Question, keep FilterFunc) []model.Question {
	out := make([]model.Question, 0, len(pool))
	for _, q := range pool {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}
