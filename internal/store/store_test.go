package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/wordwise/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "wordwise.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}

func sampleQuestion(text string, d model.Difficulty) model.Question {
	return model.Question{
		Text:          text,
		Options:       []string{"alpha", "beta", "gamma", "delta"},
		CorrectAnswer: 2,
		Difficulty:    d,
		Category:      "vocabulary",
	}
}

func TestQuestionRoundTripKeepsOptionOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.CreateQuestion(ctx, sampleQuestion("first?", model.DifficultyEasy))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := st.GetQuestion(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := []string{"alpha", "beta", "gamma", "delta"}
	if len(got.Options) != len(want) {
		t.Fatalf("expected %d options, got %v", len(want), got.Options)
	}
	for i := range want {
		if got.Options[i] != want[i] {
			t.Fatalf("option %d: expected %q, got %q", i, want[i], got.Options[i])
		}
	}
	if got.CorrectAnswer != 2 {
		t.Fatalf("expected zero-based correct answer 2, got %d", got.CorrectAnswer)
	}
}

func TestCorrectAnswerStoredOneBased(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.CreateQuestion(ctx, sampleQuestion("q?", model.DifficultyHard))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var raw int
	if err := st.db.QueryRow(`SELECT correct_answer FROM quizzes WHERE id = ?`, id).Scan(&raw); err != nil {
		t.Fatalf("query: %v", err)
	}
	if raw != 3 {
		t.Fatalf("expected stored answer 3, got %d", raw)
	}
}

func TestListQuestionsFiltersAndLimits(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyHard, model.DifficultyEasy, model.DifficultyMedium} {
		if _, err := st.CreateQuestion(ctx, sampleQuestion(string(d)+"?", d)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	easy, err := st.ListQuestions(ctx, model.QuestionFilter{Difficulty: model.DifficultyEasy})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(easy) != 2 {
		t.Fatalf("expected 2 easy questions, got %d", len(easy))
	}
	for _, q := range easy {
		if len(q.Options) != 4 {
			t.Fatalf("expected options attached, got %v", q.Options)
		}
	}

	all, err := st.ListQuestions(ctx, model.QuestionFilter{Difficulty: model.DifficultyAll, Limit: 3})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected limit 3, got %d", len(all))
	}

	n, err := st.CountQuestions(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 questions, got %d", n)
	}
}

func TestUpdateQuestionReplacesOptions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.CreateQuestion(ctx, sampleQuestion("old?", model.DifficultyEasy))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated := model.Question{
		ID:            id,
		Text:          "new?",
		Options:       []string{"yes", "no"},
		CorrectAnswer: 1,
		Difficulty:    model.DifficultyMedium,
		Category:      "vocabulary",
	}
	if err := st.UpdateQuestion(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := st.GetQuestion(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != "new?" || len(got.Options) != 2 || got.Options[1] != "no" || got.CorrectAnswer != 1 {
		t.Fatalf("unexpected updated question: %+v", got)
	}

	updated.ID = id + 100
	if err := st.UpdateQuestion(ctx, updated); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteQuestionRemovesOptions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.CreateQuestion(ctx, sampleQuestion("gone?", model.DifficultyEasy))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.DeleteQuestion(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetQuestion(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var n int
	if err := st.db.QueryRow(`SELECT COUNT(*) FROM quiz_options WHERE quiz_id = ?`, id).Scan(&n); err != nil {
		t.Fatalf("count options: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected options deleted, got %d", n)
	}
	if err := st.DeleteQuestion(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreateQuestionRejectsInvalid(t *testing.T) {
	st := openTestStore(t)
	q := sampleQuestion("bad?", model.DifficultyEasy)
	q.CorrectAnswer = 9
	if _, err := st.CreateQuestion(context.Background(), q); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestResultsNewestFirstPerUser(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	inputs := []model.Snapshot{
		{UserID: "u1", Score: 100, Difficulty: model.DifficultyEasy, CreatedAt: base},
		{UserID: "u1", Score: 300, Difficulty: model.DifficultyHard, CreatedAt: base.Add(2 * time.Hour)},
		{UserID: "u2", Score: 500, CreatedAt: base.Add(time.Hour)},
		{UserID: "u1", Score: 200, Difficulty: model.DifficultyEasy, CreatedAt: base.Add(time.Hour)},
	}
	for _, snap := range inputs {
		if _, err := st.InsertResult(ctx, snap); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := st.ListResults(ctx, model.HistoryConfig{UserID: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	wantScores := []int{300, 200, 100}
	for i, snap := range got {
		if snap.Score != wantScores[i] {
			t.Fatalf("result %d: expected score %d, got %d", i, wantScores[i], snap.Score)
		}
	}

	easy, err := st.ListResults(ctx, model.HistoryConfig{UserID: "u1", Difficulty: model.DifficultyEasy, Last: 1})
	if err != nil {
		t.Fatalf("list easy: %v", err)
	}
	if len(easy) != 1 || easy[0].Score != 200 {
		t.Fatalf("unexpected easy results: %+v", easy)
	}

	other, err := st.ListResults(ctx, model.HistoryConfig{UserID: "u2"})
	if err != nil {
		t.Fatalf("list u2: %v", err)
	}
	if len(other) != 1 || other[0].Difficulty != model.DifficultyAll {
		t.Fatalf("expected default difficulty all, got %+v", other)
	}
	if other[0].Name != "Game Result 2024-05-01T13:00:00Z" {
		t.Fatalf("unexpected default name %q", other[0].Name)
	}
}

func TestResultsOrderedWithinSecond(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	offsets := []time.Duration{
		100 * time.Millisecond,
		150 * time.Millisecond,
		time.Second,
		1500 * time.Millisecond,
	}
	for i, offset := range offsets {
		snap := model.Snapshot{UserID: "u1", Score: i + 1, CreatedAt: base.Add(offset)}
		if _, err := st.InsertResult(ctx, snap); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := st.ListResults(ctx, model.HistoryConfig{UserID: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []int{4, 3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, snap := range got {
		if snap.Score != want[i] {
			t.Fatalf("result %d: expected score %d, got %d", i, want[i], snap.Score)
		}
	}
	if !got[0].CreatedAt.Equal(base.Add(1500 * time.Millisecond)) {
		t.Fatalf("unexpected created_at %v", got[0].CreatedAt)
	}

	last, err := st.ListResults(ctx, model.HistoryConfig{UserID: "u1", Last: 2})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 || last[0].Score != 4 || last[1].Score != 3 {
		t.Fatalf("unexpected last two results: %+v", last)
	}
}

func TestUpdateAndDeleteResult(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.InsertResult(ctx, model.Snapshot{UserID: "u1", Score: 150})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	snap, err := st.GetResult(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	snap.Name = "renamed"
	snap.Score = 175
	if err := st.UpdateResult(ctx, snap); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := st.GetResult(ctx, id)
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if got.Name != "renamed" || got.Score != 175 {
		t.Fatalf("unexpected updated result: %+v", got)
	}
	if err := st.DeleteResult(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetResult(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.UpdateResult(ctx, snap); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestEnsureUserKeepsFirstID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first, err := st.EnsureUser(ctx, model.User{ID: "id-1", Name: "ada"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	second, err := st.EnsureUser(ctx, model.User{ID: "id-2", Name: " ada "})
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if first.ID != "id-1" || second.ID != "id-1" {
		t.Fatalf("expected stable id, got %s and %s", first.ID, second.ID)
	}
	got, err := st.GetUser(ctx, "id-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Name != "ada" {
		t.Fatalf("unexpected user %+v", got)
	}
	if _, err := st.GetUser(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
