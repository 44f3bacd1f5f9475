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

// ListQuestions returns questions with their options, oldest first.
func (s *Store) ListQuestions(ctx context.Context, filter model.QuestionFilter) ([]model.Question, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Difficulty != "" && filter.Difficulty != model.DifficultyAll {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, string(filter.Difficulty))
	}
	query := fmt.Sprintf(`SELECT id, question, correct_answer, difficulty, category
		FROM quizzes
		WHERE %s
		ORDER BY id ASC`, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachOptions(ctx, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GetQuestion returns a single question with options.
func (s *Store) GetQuestion(ctx context.Context, id int64) (model.Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, question, correct_answer, difficulty, category FROM quizzes WHERE id = ?`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Question{}, ErrNotFound
	}
	if err != nil {
		return model.Question{}, err
	}
	questions := []model.Question{q}
	if err := s.attachOptions(ctx, questions); err != nil {
		return model.Question{}, err
	}
	return questions[0], nil
}

// CountQuestions returns the number of stored questions.
func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quizzes`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateQuestion stores a question and its options. The id of q is ignored.
func (s *Store) CreateQuestion(ctx context.Context, q model.Question) (id int64, err error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			rollback(tx)
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO quizzes (name, question, correct_answer, difficulty, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		questionName(q),
		q.Text,
		q.CorrectAnswer+1,
		string(q.Difficulty),
		q.Category,
		time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err = insertOptions(ctx, tx, id, q.Options); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateQuestion replaces a question and its options.
func (s *Store) UpdateQuestion(ctx context.Context, q model.Question) (err error) {
	if err := q.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			rollback(tx)
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE quizzes SET name = ?, question = ?, correct_answer = ?, difficulty = ?, category = ? WHERE id = ?`,
		questionName(q), q.Text, q.CorrectAnswer+1, string(q.Difficulty), q.Category, q.ID)
	if err != nil {
		return err
	}
	if err = checkAffected(res); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM quiz_options WHERE quiz_id = ?`, q.ID); err != nil {
		return err
	}
	if err = insertOptions(ctx, tx, q.ID, q.Options); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteQuestion removes a question and its options.
func (s *Store) DeleteQuestion(ctx context.Context, id int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			rollback(tx)
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM quiz_options WHERE quiz_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err = checkAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (model.Question, error) {
	var q model.Question
	var correct int
	var difficulty string
	if err := row.Scan(&q.ID, &q.Text, &correct, &difficulty, &q.Category); err != nil {
		return model.Question{}, err
	}
	// Stored 1-based.
	q.CorrectAnswer = correct - 1
	q.Difficulty = model.Difficulty(difficulty)
	return q, nil
}

func (s *Store) attachOptions(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	args := make([]any, len(questions))
	byID := make(map[int64]int, len(questions))
	for i, q := range questions {
		args[i] = q.ID
		byID[q.ID] = i
	}
	query := fmt.Sprintf(`SELECT quiz_id, option_text
		FROM quiz_options
		WHERE quiz_id IN (%s)
		ORDER BY quiz_id ASC, option_index ASC`, placeholders(len(questions)))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer closeRows(rows)

	for rows.Next() {
		var quizID int64
		var text string
		if err := rows.Scan(&quizID, &text); err != nil {
			return err
		}
		if i, ok := byID[quizID]; ok {
			questions[i].Options = append(questions[i].Options, text)
		}
	}
	return rows.Err()
}

func insertOptions(ctx context.Context, tx *sql.Tx, quizID int64, options []string) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO quiz_options (quiz_id, name, option_index, option_text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, text := range options {
		if _, err := stmt.ExecContext(ctx, quizID, fmt.Sprintf("Option %d", i+1), i+1, text); err != nil {
			return err
		}
	}
	return nil
}

func questionName(q model.Question) string {
	if q.Category == "" {
		return string(q.Difficulty)
	}
	return fmt.Sprintf("%s/%s", q.Category, q.Difficulty)
}
