package quiz

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/wordwise/internal/bank"
	"github.com/verte-zerg/wordwise/internal/model"
)

// prefixSampler keeps pool order so tests can predict the questions.
type prefixSampler struct{}

func (prefixSampler) Sample(pool []model.Question, count int) []model.Question {
	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count]
}

func testPool() []model.Question {
	diffs := []model.Difficulty{
		model.DifficultyMedium, model.DifficultyHard, model.DifficultyMedium, model.DifficultyEasy,
		model.DifficultyHard, model.DifficultyMedium, model.DifficultyHard, model.DifficultyHard,
	}
	pool := make([]model.Question, len(diffs))
	for i, d := range diffs {
		pool[i] = model.Question{
			ID:            int64(i + 1),
			Text:          "question",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4,
			Difficulty:    d,
			Category:      "definitions",
		}
	}
	return pool
}

func newTestSession(t *testing.T, lifetime model.Lifetime) *Session {
	t.Helper()
	s := NewSession(lifetime, prefixSampler{})
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func startDefault(t *testing.T, s *Session, difficulty model.Difficulty) Task {
	t.Helper()
	cfg := model.DefaultSessionConfig()
	cfg.Difficulty = difficulty
	task, err := s.Start(testPool(), cfg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return task
}

func tickN(s *Session, n int) Outcome {
	var out Outcome
	for i := 0; i < n; i++ {
		out = s.Tick()
	}
	return out
}

func correctOption(s *Session) int {
	q, _ := s.State().Current()
	return q.CorrectAnswer
}

func wrongOption(s *Session) int {
	return (correctOption(s) + 1) % 4
}

func TestStartUsesWholeSmallPool(t *testing.T) {
	s := newTestSession(t, model.Lifetime{})
	task := startDefault(t, s, model.DifficultyMedium)
	st := s.State()
	if st.Phase != PhasePlaying {
		t.Fatalf("expected playing, got %s", st.Phase)
	}
	if len(st.Questions) != 3 {
		t.Fatalf("expected 3 medium questions, got %d", len(st.Questions))
	}
	for _, q := range st.Questions {
		if q.Difficulty != model.DifficultyMedium {
			t.Fatalf("question %d has difficulty %s", q.ID, q.Difficulty)
		}
	}
	if st.TimeLeft != model.DefaultTimeLimit {
		t.Fatalf("expected full time budget, got %d", st.TimeLeft)
	}
	if task.Kind != TaskTick || task.After != 1 {
		t.Fatalf("unexpected first task: %+v", task)
	}
}

func TestStartAllTakesQuestionCount(t *testing.T) {
	s := NewSession(model.Lifetime{}, nil)
	s.sampler = prefixSampler{}
	startDefault(t, s, model.DifficultyAll)
	if got := len(s.State().Questions); got != model.DefaultQuestionCount {
		t.Fatalf("expected %d questions, got %d", model.DefaultQuestionCount, got)
	}
}

func TestStartInsufficientQuestions(t *testing.T) {
	s := newTestSession(t, model.Lifetime{})
	pool := bank.Filter(testPool(), bank.FilterForDifficulty(model.DifficultyHard))
	cfg := model.DefaultSessionConfig()
	cfg.Difficulty = model.DifficultyEasy
	_, err := s.Start(pool, cfg)
	if !errors.Is(err, ErrInsufficientQuestions) {
		t.Fatalf("expected ErrInsufficientQuestions, got %v", err)
	}
	if s.Phase() != PhaseMenu {
		t.Fatalf("expected menu after failed start, got %s", s.Phase())
	}
}

func TestScoreDecaysWithTime(t *testing.T) {
	cases := []struct {
		ticks int
		left  int
		want  int
	}{
		{ticks: 5, left: 25, want: 100},
		{ticks: 9, left: 21, want: 100},
		{ticks: 10, left: 20, want: 75},
		{ticks: 15, left: 15, want: 75},
		{ticks: 20, left: 10, want: 50},
		{ticks: 25, left: 5, want: 50},
	}
	for _, tc := range cases {
		s := newTestSession(t, model.Lifetime{})
		startDefault(t, s, model.DifficultyAll)
		tickN(s, tc.ticks)
		if got := s.State().TimeLeft; got != tc.left {
			t.Fatalf("expected %d ticks left, got %d", tc.left, got)
		}
		out := s.Select(correctOption(s))
		if got := s.State().Score; got != tc.want {
			t.Fatalf("at %d left expected score %d, got %d", tc.left, tc.want, got)
		}
		if len(out.Notices) != 1 || out.Notices[0].Level != LevelSuccess {
			t.Fatalf("expected success notice, got %+v", out.Notices)
		}
		if out.Next == nil || out.Next.Kind != TaskAdvance || out.Next.After != model.DefaultRevealDelay {
			t.Fatalf("expected advance task, got %+v", out.Next)
		}
	}
}

func TestScoreFor(t *testing.T) {
	for left, want := range map[int]int{30: 100, 21: 100, 20: 75, 11: 75, 10: 50, 1: 50, 0: 50} {
		if got := ScoreFor(left); got != want {
			t.Fatalf("ScoreFor(%d) = %d, want %d", left, got, want)
		}
	}
}

func TestIncorrectResetsStreak(t *testing.T) {
	s := newTestSession(t, model.Lifetime{})
	startDefault(t, s, model.DifficultyAll)
	s.Select(correctOption(s))
	s.Advance()
	s.Select(correctOption(s))
	if st := s.State(); st.Streak != 2 || st.BestStreak != 2 {
		t.Fatalf("expected streak 2/best 2, got %d/%d", st.Streak, st.BestStreak)
	}
	s.Advance()
	out := s.Select(wrongOption(s))
	st := s.State()
	if st.Streak != 0 {
		t.Fatalf("expected streak reset, got %d", st.Streak)
	}
	if st.BestStreak != 2 {
		t.Fatalf("expected best streak to stay 2, got %d", st.BestStreak)
	}
	if st.Score != 200 {
		t.Fatalf("expected incorrect answer to add nothing, got %d", st.Score)
	}
	if out.Notices[0].Level != LevelError {
		t.Fatalf("expected error notice for wrong answer")
	}
}

func TestTimeout(t *testing.T) {
	s := newTestSession(t, model.Lifetime{})
	startDefault(t, s, model.DifficultyAll)
	s.Select(correctOption(s))
	s.Advance()

	out := tickN(s, model.DefaultTimeLimit)
	st := s.State()
	if !st.Revealed || st.Selected != NoSelection {
		t.Fatalf("expected reveal with no selection, got revealed=%v selected=%d", st.Revealed, st.Selected)
	}
	if st.TimeLeft != 0 || st.Streak != 0 || st.Score != 100 {
		t.Fatalf("unexpected state after timeout: %+v", st)
	}
	if out.Next == nil || out.Next.Kind != TaskAdvance || out.Next.After != model.DefaultRevealDelay {
		t.Fatalf("expected advance after timeout, got %+v", out.Next)
	}
	if extra := s.Tick(); extra.Next != nil || s.State().TimeLeft != 0 {
		t.Fatalf("tick after reveal must be a no-op")
	}
}

func TestSelectAfterRevealIgnored(t *testing.T) {
	s := newTestSession(t, model.Lifetime{})
	startDefault(t, s, model.DifficultyAll)
	s.Select(wrongOption(s))
	out := s.Select(correctOption(s))
	if out.Next != nil || len(out.Notices) != 0 {
		t.Fatalf("expected duplicate selection to be ignored, got %+v", out)
	}
	if st := s.State(); st.Score != 0 || st.Selected != wrongOption(s) {
		t.Fatalf("duplicate selection changed state: %+v", st)
	}
}

func TestSelectOutOfRangeIgnored(t *testing.T) {
	s := newTestSession(t, model.Lifetime{})
	startDefault(t, s, model.DifficultyAll)
	if out := s.Select(7); out.Next != nil {
		t.Fatalf("expected out of range option to be ignored")
	}
	if s.State().Revealed {
		t.Fatalf("out of range option must not reveal")
	}
}

func TestStaleTasksDropped(t *testing.T) {
	s := newTestSession(t, model.Lifetime{})
	tick := startDefault(t, s, model.DifficultyAll)
	out := s.Select(correctOption(s))
	before := s.State()
	if res := s.Fire(tick); res.Next != nil || s.State().TimeLeft != before.TimeLeft {
		t.Fatalf("stale tick must not apply")
	}

	advance := *out.Next
	s.Reset()
	if res := s.Fire(advance); res.Next != nil || res.Snapshot != nil {
		t.Fatalf("advance after reset must be dropped")
	}
	if s.Phase() != PhaseMenu {
		t.Fatalf("expected menu, got %s", s.Phase())
	}
}

func TestFireRunsLiveTask(t *testing.T) {
	s := newTestSession(t, model.Lifetime{})
	task := startDefault(t, s, model.DifficultyAll)
	out := s.Fire(task)
	if s.State().TimeLeft != model.DefaultTimeLimit-1 {
		t.Fatalf("expected tick to apply")
	}
	if out.Next == nil || out.Next.Generation == task.Generation {
		t.Fatalf("expected a fresh tick task, got %+v", out.Next)
	}
	if res := s.Fire(task); res.Next != nil {
		t.Fatalf("a task must fire only once")
	}
}

func TestAdvanceToResults(t *testing.T) {
	s := newTestSession(t, model.Lifetime{BestStreak: 4, GamesPlayed: 9})
	startDefault(t, s, model.DifficultyMedium)

	var out Outcome
	for i := 0; i < 3; i++ {
		s.Select(correctOption(s))
		out = s.Advance()
	}
	if s.Phase() != PhaseResults {
		t.Fatalf("expected results, got %s", s.Phase())
	}
	if got := s.Lifetime().GamesPlayed; got != 10 {
		t.Fatalf("expected games played 10, got %d", got)
	}
	if out.Snapshot == nil {
		t.Fatalf("expected snapshot on results")
	}
	snap := *out.Snapshot
	if snap.Score != 300 || snap.BestStreak != 4 || snap.GamesPlayed != 10 || snap.Difficulty != model.DifficultyMedium {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Name != "Game Result 2024-05-01T12:00:00Z" {
		t.Fatalf("unexpected snapshot name %q", snap.Name)
	}
	if out.Tier != TierTop {
		t.Fatalf("expected top tier for a perfect game, got %s", out.Tier)
	}
	if again := s.Advance(); again.Snapshot != nil || s.Lifetime().GamesPlayed != 10 {
		t.Fatalf("advance in results must be a no-op")
	}
}

func TestResetKeepsLifetime(t *testing.T) {
	s := newTestSession(t, model.Lifetime{})
	startDefault(t, s, model.DifficultyAll)
	s.Select(correctOption(s))
	s.Advance()
	s.Select(correctOption(s))
	s.Reset()

	st := s.State()
	if st.Phase != PhaseMenu || len(st.Questions) != 0 || st.Score != 0 || st.Streak != 0 || st.Index != 0 {
		t.Fatalf("reset left transient state: %+v", st)
	}
	if st.BestStreak != 2 {
		t.Fatalf("expected best streak preserved, got %d", st.BestStreak)
	}

	startDefault(t, s, model.DifficultyAll)
	s.Select(wrongOption(s))
	if got := s.State().BestStreak; got != 2 {
		t.Fatalf("best streak decreased to %d", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		score int
		count int
		want  Tier
	}{
		{score: 400, count: 5, want: TierTop},
		{score: 375, count: 5, want: TierMid},
		{score: 300, count: 5, want: TierMid},
		{score: 275, count: 5, want: TierLow},
		{score: 0, count: 0, want: TierLow},
		{score: 150, count: 2, want: TierMid},
		{score: 100, count: 2, want: TierLow},
		{score: 175, count: 2, want: TierTop},
	}
	for _, tc := range cases {
		if got := Classify(tc.score, tc.count); got != tc.want {
			t.Fatalf("Classify(%d, %d) = %s, want %s", tc.score, tc.count, got, tc.want)
		}
	}
}
