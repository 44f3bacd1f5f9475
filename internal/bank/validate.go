package bank

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/wordwise/internal/model"
)

// Issue captures a validation problem in a question bank.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("question bank validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// NormalizeFile trims whitespace, assigns missing ids and validates a bank.
func NormalizeFile(file File) (File, error) {
	collector := &issueCollector{}
	if file.Version == 0 {
		collector.add("version", "is required")
	} else if file.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", file.Version))
	}
	if len(file.Questions) == 0 {
		collector.add("questions", "must include at least one entry")
	}

	seenIDs := map[int64]struct{}{}
	var maxID int64
	for _, q := range file.Questions {
		if q.ID > maxID {
			maxID = q.ID
		}
	}
	for i, q := range file.Questions {
		prefix := fmt.Sprintf("questions[%d]", i)
		if q.ID == 0 {
			maxID++
			q.ID = maxID
		} else if q.ID < 0 {
			collector.add(prefix+".id", "must be positive")
		}
		if _, exists := seenIDs[q.ID]; exists {
			collector.add(prefix+".id", fmt.Sprintf("duplicate id %d", q.ID))
		}
		seenIDs[q.ID] = struct{}{}

		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			collector.add(prefix+".question", "is required")
		}
		q.Category = strings.TrimSpace(q.Category)
		q.Difficulty = model.Difficulty(strings.ToLower(strings.TrimSpace(string(q.Difficulty))))
		if !q.Difficulty.IsTag() {
			collector.add(prefix+".difficulty", fmt.Sprintf("must be easy, medium or hard, got %q", q.Difficulty))
		}

		q.Options = normalizeStringSlice(q.Options)
		if len(q.Options) < 2 {
			collector.add(prefix+".options", "must include at least two entries")
		}
		for optionIndex, option := range q.Options {
			if option == "" {
				collector.add(fmt.Sprintf("%s.options[%d]", prefix, optionIndex), "is required")
			}
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			collector.add(prefix+".correct_answer", fmt.Sprintf("index %d is out of range", q.CorrectAnswer))
		}
		file.Questions[i] = q
	}

	if err := collector.result(); err != nil {
		return File{}, err
	}
	return file, nil
}

func normalizeStringSlice(values []string) []string {
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		normalized = append(normalized, strings.TrimSpace(value))
	}
	return normalized
}
