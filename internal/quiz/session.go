// Package quiz implements the quiz session state machine.
package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/wordwise/internal/bank"
	"github.com/verte-zerg/wordwise/internal/model"
)

// ErrInsufficientQuestions is returned by Start when no question matches the filter.
var ErrInsufficientQuestions = errors.New("no questions available for the selected difficulty")

// Phase is the top-level state of a session.
type Phase string

// Session phases.
const (
	PhaseMenu    Phase = "menu"
	PhasePlaying Phase = "playing"
	PhaseResults Phase = "results"
)

// NoSelection marks that no option has been chosen.
const NoSelection = -1

// TaskKind identifies deferred session work.
type TaskKind int

// Deferred work kinds.
const (
	TaskTick TaskKind = iota
	TaskAdvance
)

// Task is a unit of deferred work the driver must deliver back through Fire
// after After ticks. Only the most recently scheduled task is live; anything
// older is dropped by the generation check.
type Task struct {
	Kind       TaskKind
	Generation uint64
	After      int
}

// Level classifies a notice.
type Level int

// Notice levels.
const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// Notice is advisory feedback for the UI.
type Notice struct {
	Level Level
	Text  string
}

// Outcome describes the effects of a single transition.
type Outcome struct {
	Notices  []Notice
	Next     *Task
	Snapshot *model.Snapshot
	Tier     Tier
}

// Sampler selects the questions for a game.
type Sampler interface {
	Sample(pool []model.Question, count int) []model.Question
}

// State is a read-only copy of the session for rendering.
type State struct {
	Phase       Phase
	Difficulty  model.Difficulty
	Questions   []model.Question
	Index       int
	Score       int
	Streak      int
	BestStreak  int
	GamesPlayed int
	TimeLeft    int
	TimeLimit   int
	Selected    int
	Revealed    bool
}

// Current returns the active question.
func (st State) Current() (model.Question, bool) {
	if st.Index < 0 || st.Index >= len(st.Questions) {
		return model.Question{}, false
	}
	return st.Questions[st.Index], true
}

// Session owns all game state. It is not safe for concurrent use; callers
// serialize input and timer events through a single goroutine.
type Session struct {
	sampler Sampler
	now     func() time.Time

	cfg      model.SessionConfig
	lifetime model.Lifetime

	phase     Phase
	questions []model.Question
	index     int
	score     int
	streak    int
	timeLeft  int
	selected  int
	revealed  bool

	generation uint64
}

// NewSession creates a session in the menu phase carrying lifetime counters.
func NewSession(lifetime model.Lifetime, sampler Sampler) *Session {
	s := &Session{
		sampler:  sampler,
		now:      time.Now,
		cfg:      model.DefaultSessionConfig(),
		lifetime: lifetime,
	}
	s.Reset()
	return s
}

// Start filters pool by the configured difficulty, samples the game questions
// and enters the playing phase. The returned task drives the first tick.
func (s *Session) Start(pool []model.Question, cfg model.SessionConfig) (Task, error) {
	cfg = normalizeConfig(cfg)
	filtered := bank.Filter(pool, bank.FilterForDifficulty(cfg.Difficulty))
	if len(filtered) == 0 {
		return Task{}, fmt.Errorf("%w: %s", ErrInsufficientQuestions, cfg.Difficulty)
	}
	s.cfg = cfg
	s.questions = s.sampler.Sample(filtered, cfg.QuestionCount)
	s.phase = PhasePlaying
	s.index = 0
	s.score = 0
	s.streak = 0
	s.selected = NoSelection
	s.revealed = false
	s.timeLeft = cfg.TimeLimit
	return *s.schedule(TaskTick, 1), nil
}

// Tick counts down the active question. Reaching zero reveals the answer as a
// timeout and schedules the advance.
func (s *Session) Tick() Outcome {
	if s.phase != PhasePlaying || s.revealed {
		return Outcome{}
	}
	if s.timeLeft > 0 {
		s.timeLeft--
	}
	if s.timeLeft > 0 {
		return Outcome{Next: s.schedule(TaskTick, 1)}
	}
	s.revealed = true
	s.selected = NoSelection
	s.streak = 0
	return Outcome{
		Notices: []Notice{{Level: LevelError, Text: "Time's up!"}},
		Next:    s.schedule(TaskAdvance, s.cfg.RevealDelay),
	}
}

// Select answers the active question. Input after the reveal, or outside
// the option range, is ignored.
func (s *Session) Select(option int) Outcome {
	if s.phase != PhasePlaying || s.revealed {
		return Outcome{}
	}
	q := s.questions[s.index]
	if option < 0 || option >= len(q.Options) {
		return Outcome{}
	}
	s.selected = option
	s.revealed = true

	var notice Notice
	if option == q.CorrectAnswer {
		points := ScoreFor(s.timeLeft)
		s.score += points
		s.streak++
		if s.streak > s.lifetime.BestStreak {
			s.lifetime.BestStreak = s.streak
		}
		notice = Notice{Level: LevelSuccess, Text: fmt.Sprintf("Correct! +%d points", points)}
	} else {
		s.streak = 0
		notice = Notice{Level: LevelError, Text: "Incorrect answer!"}
	}
	return Outcome{
		Notices: []Notice{notice},
		Next:    s.schedule(TaskAdvance, s.cfg.RevealDelay),
	}
}

// Advance moves to the next question, or finishes the game after the last one.
func (s *Session) Advance() Outcome {
	if s.phase != PhasePlaying {
		return Outcome{}
	}
	if s.index < len(s.questions)-1 {
		s.index++
		s.selected = NoSelection
		s.revealed = false
		s.timeLeft = s.cfg.TimeLimit
		return Outcome{Next: s.schedule(TaskTick, 1)}
	}
	return s.finish()
}

// Fire delivers a scheduled task. Stale tasks are dropped.
func (s *Session) Fire(task Task) Outcome {
	if task.Generation != s.generation {
		return Outcome{}
	}
	switch task.Kind {
	case TaskTick:
		return s.Tick()
	case TaskAdvance:
		return s.Advance()
	default:
		return Outcome{}
	}
}

// Reset returns to the menu. Lifetime counters are kept.
func (s *Session) Reset() {
	s.phase = PhaseMenu
	s.questions = nil
	s.index = 0
	s.score = 0
	s.streak = 0
	s.selected = NoSelection
	s.revealed = false
	s.timeLeft = s.cfg.TimeLimit
	s.generation++
}

// Lifetime returns the counters to carry into the next session.
func (s *Session) Lifetime() model.Lifetime {
	return s.lifetime
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Revealed reports whether the active question's answer is shown.
func (s *Session) Revealed() bool {
	return s.revealed
}

// Config returns the configuration of the current or last game.
func (s *Session) Config() model.SessionConfig {
	return s.cfg
}

// State returns a copy of the session for rendering.
func (s *Session) State() State {
	questions := make([]model.Question, len(s.questions))
	copy(questions, s.questions)
	return State{
		Phase:       s.phase,
		Difficulty:  s.cfg.Difficulty,
		Questions:   questions,
		Index:       s.index,
		Score:       s.score,
		Streak:      s.streak,
		BestStreak:  s.lifetime.BestStreak,
		GamesPlayed: s.lifetime.GamesPlayed,
		TimeLeft:    s.timeLeft,
		TimeLimit:   s.cfg.TimeLimit,
		Selected:    s.selected,
		Revealed:    s.revealed,
	}
}

func (s *Session) finish() Outcome {
	s.phase = PhaseResults
	s.lifetime.GamesPlayed++
	s.generation++

	tier := Classify(s.score, len(s.questions))
	now := s.now()
	snap := model.Snapshot{
		Name:        "Game Result " + now.UTC().Format(time.RFC3339),
		Score:       s.score,
		BestStreak:  s.lifetime.BestStreak,
		GamesPlayed: s.lifetime.GamesPlayed,
		Difficulty:  s.cfg.Difficulty,
		CreatedAt:   now,
	}
	return Outcome{
		Notices:  []Notice{tier.Notice()},
		Snapshot: &snap,
		Tier:     tier,
	}
}

func (s *Session) schedule(kind TaskKind, after int) *Task {
	s.generation++
	return &Task{Kind: kind, Generation: s.generation, After: after}
}

func normalizeConfig(cfg model.SessionConfig) model.SessionConfig {
	def := model.DefaultSessionConfig()
	if cfg.Difficulty == "" {
		cfg.Difficulty = def.Difficulty
	}
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = def.QuestionCount
	}
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = def.TimeLimit
	}
	if cfg.RevealDelay <= 0 {
		cfg.RevealDelay = def.RevealDelay
	}
	return cfg
}
