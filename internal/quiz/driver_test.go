package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/wordwise/internal/model"
)

type recordingSaver struct {
	mu    sync.Mutex
	snaps []model.Snapshot
	err   error
}

func (r *recordingSaver) Save(_ context.Context, snap model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.snaps = append(r.snaps, snap)
	return nil
}

func TestDriverAnswersEveryQuestion(t *testing.T) {
	saver := &recordingSaver{}
	session := NewSession(model.Lifetime{}, prefixSampler{})
	var driver *Driver
	answered := -1
	driver = NewDriver(session, DriverOptions{
		Unit:   2 * time.Millisecond,
		Saver:  saver,
		UserID: "user-1",
		OnChange: func(st State) {
			if st.Phase != PhasePlaying || st.Revealed || st.Index == answered {
				return
			}
			if q, ok := st.Current(); ok {
				answered = st.Index
				driver.Answer(q.CorrectAnswer)
			}
		},
	})

	cfg := model.DefaultSessionConfig()
	cfg.Difficulty = model.DifficultyMedium
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := driver.Run(ctx, testPool(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.Wait()

	if snap.Score != 300 {
		t.Fatalf("expected 300 points, got %d", snap.Score)
	}
	if snap.UserID != "user-1" || snap.GamesPlayed != 1 || snap.BestStreak != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(saver.snaps) != 1 || saver.snaps[0].Score != 300 {
		t.Fatalf("expected one saved snapshot, got %+v", saver.snaps)
	}
	if session.Phase() != PhaseResults {
		t.Fatalf("expected results phase, got %s", session.Phase())
	}
}

func TestDriverTimesOut(t *testing.T) {
	session := NewSession(model.Lifetime{BestStreak: 2}, prefixSampler{})
	var mu sync.Mutex
	var notices []Notice
	driver := NewDriver(session, DriverOptions{
		Unit: time.Millisecond,
		OnNotice: func(n Notice) {
			mu.Lock()
			notices = append(notices, n)
			mu.Unlock()
		},
	})
	cfg := model.SessionConfig{Difficulty: model.DifficultyEasy, QuestionCount: 5, TimeLimit: 3, RevealDelay: 1}
	snap, err := driver.Run(context.Background(), testPool(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if snap.Score != 0 || snap.BestStreak != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(notices) < 2 || notices[0].Text != "Time's up!" {
		t.Fatalf("expected timeout notice first, got %+v", notices)
	}
	if last := notices[len(notices)-1]; last.Level != LevelInfo {
		t.Fatalf("expected low tier notice last, got %+v", last)
	}
}

func TestDriverSaveFailureIsOnlyANotice(t *testing.T) {
	saver := &recordingSaver{err: errors.New("boom")}
	session := NewSession(model.Lifetime{}, prefixSampler{})
	var mu sync.Mutex
	var failed bool
	driver := NewDriver(session, DriverOptions{
		Unit:  time.Millisecond,
		Saver: saver,
		OnNotice: func(n Notice) {
			mu.Lock()
			if n.Level == LevelError && n.Text == "Failed to save game result" {
				failed = true
			}
			mu.Unlock()
		},
	})
	cfg := model.SessionConfig{Difficulty: model.DifficultyEasy, TimeLimit: 1, RevealDelay: 1}
	snap, err := driver.Run(context.Background(), testPool(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	driver.Wait()
	if snap.GamesPlayed != 1 || session.Phase() != PhaseResults {
		t.Fatalf("save failure must not affect results: %+v", snap)
	}
	mu.Lock()
	defer mu.Unlock()
	if !failed {
		t.Fatalf("expected failure notice")
	}
}

func TestDriverCancel(t *testing.T) {
	session := NewSession(model.Lifetime{}, prefixSampler{})
	driver := NewDriver(session, DriverOptions{Unit: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.Run(ctx, testPool(), model.DefaultSessionConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if session.Phase() != PhaseMenu {
		t.Fatalf("expected menu after cancel, got %s", session.Phase())
	}
}

func TestDriverInsufficientQuestions(t *testing.T) {
	driver := NewDriver(NewSession(model.Lifetime{}, prefixSampler{}), DriverOptions{})
	_, err := driver.Run(context.Background(), nil, model.DefaultSessionConfig())
	if !errors.Is(err, ErrInsufficientQuestions) {
		t.Fatalf("expected ErrInsufficientQuestions, got %v", err)
	}
}

func TestDriverQueuesInputDuringReveal(t *testing.T) {
	session := NewSession(model.Lifetime{}, prefixSampler{})
	var mu sync.Mutex
	var notices []Notice
	driver := NewDriver(session, DriverOptions{
		Unit: 5 * time.Millisecond,
		OnNotice: func(n Notice) {
			mu.Lock()
			notices = append(notices, n)
			mu.Unlock()
		},
	})
	pool := []model.Question{}
	for _, q := range testPool() {
		if q.Difficulty == model.DifficultyMedium {
			pool = append(pool, q)
		}
	}
	for _, q := range pool {
		driver.Answer(q.CorrectAnswer)
	}

	cfg := model.SessionConfig{Difficulty: model.DifficultyMedium, QuestionCount: len(pool), TimeLimit: 30, RevealDelay: 1}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := driver.Run(ctx, pool, cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	correct := 0
	for _, n := range notices {
		if n.Text == "Time's up!" {
			t.Fatalf("queued answer was dropped: %+v", notices)
		}
		if n.Level == LevelSuccess && n.Text != "Excellent performance!" {
			correct++
		}
	}
	if correct != len(pool) || snap.BestStreak != len(pool) {
		t.Fatalf("expected %d correct answers, got %d (%+v)", len(pool), correct, snap)
	}
}
