// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wordwise/internal/bank"
	"github.com/verte-zerg/wordwise/internal/generator"
	"github.com/verte-zerg/wordwise/internal/model"
	"github.com/verte-zerg/wordwise/internal/quiz"
)

const (
	ioTimeout     = 10 * time.Second
	noticeTTL     = 3 * time.Second
	maxNotices    = 3
	maxOptionKeys = 9
)

// Options wires the model to its collaborators.
type Options struct {
	Source bank.Source
	Saver  quiz.Saver
	UserID string
	Config model.SessionConfig
	// TickUnit is the real duration of one session tick.
	TickUnit time.Duration
	Lifetime model.Lifetime
	// QuestionTotal is shown on the menu.
	QuestionTotal int
	Sampler       quiz.Sampler
}

type taskMsg struct {
	task quiz.Task
}

// poolMsg carries the questions fetched for a game about to start.
type poolMsg struct {
	cfg  model.SessionConfig
	pool []model.Question
}

type savedMsg struct {
	err error
}

type noticeExpiredMsg struct {
	id int
}

type toast struct {
	id     int
	notice quiz.Notice
}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	opts    Options
	session *quiz.Session

	difficultyIdx int
	pending       quiz.Task
	lastTier      quiz.Tier
	lastErr       string
	loading       bool

	notices      []toast
	nextNoticeID int

	width  int
	height int
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	optionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#BFBFBF"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#69B1FF"))
)

// NewModel constructs the quiz TUI model in the menu phase.
func NewModel(opts Options) *Model {
	if opts.TickUnit <= 0 {
		opts.TickUnit = time.Second
	}
	if opts.Sampler == nil {
		opts.Sampler = generator.New()
	}
	if opts.Config.Difficulty == "" {
		opts.Config.Difficulty = model.DifficultyAll
	}
	m := &Model{
		opts:    opts,
		session: quiz.NewSession(opts.Lifetime, opts.Sampler),
	}
	for i, d := range model.Difficulties {
		if d == opts.Config.Difficulty {
			m.difficultyIdx = i
		}
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case taskMsg:
		return m, m.apply(m.session.Fire(msg.task))
	case poolMsg:
		m.loading = false
		return m, m.begin(msg.cfg, msg.pool)
	case savedMsg:
		if msg.err != nil {
			logErrf("failed to save game result: %v\n", msg.err)
			return m, m.push(quiz.Notice{Level: quiz.LevelError, Text: "Failed to save game result"})
		}
		return m, m.push(quiz.Notice{Level: quiz.LevelSuccess, Text: "Game result saved successfully!"})
	case noticeExpiredMsg:
		m.dropNotice(msg.id)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.session.Phase() {
	case quiz.PhaseMenu:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "shift+tab", "h":
			m.cycleDifficulty(-1)
		case "right", "tab", "l":
			m.cycleDifficulty(1)
		case "enter", " ":
			return m, m.start()
		}
	case quiz.PhasePlaying:
		switch key := msg.String(); key {
		case "esc", "m":
			m.session.Reset()
		default:
			if option, ok := optionForKey(key); ok {
				return m, m.apply(m.session.Select(option))
			}
		}
	case quiz.PhaseResults:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r", "enter":
			return m, m.start()
		case "m", "esc":
			m.session.Reset()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.session.Phase() {
	case quiz.PhasePlaying:
		content = m.renderPlaying()
	case quiz.PhaseResults:
		content = m.renderResults()
	default:
		content = m.renderMenu()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

// Lifetime returns the counters accumulated so far.
func (m *Model) Lifetime() model.Lifetime {
	return m.session.Lifetime()
}

// start fetches the pool off the update loop; the game begins on poolMsg.
func (m *Model) start() tea.Cmd {
	if m.loading {
		return nil
	}
	cfg := m.opts.Config
	cfg.Difficulty = model.Difficulties[m.difficultyIdx]
	m.loading = true
	m.lastErr = ""
	source := m.opts.Source
	return func() tea.Msg {
		if source == nil {
			return poolMsg{cfg: cfg}
		}
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return poolMsg{cfg: cfg, pool: source.Questions(ctx, cfg.Difficulty)}
	}
}

func (m *Model) begin(cfg model.SessionConfig, pool []model.Question) tea.Cmd {
	task, err := m.session.Start(pool, cfg)
	if err != nil {
		m.lastErr = err.Error()
		if !errors.Is(err, quiz.ErrInsufficientQuestions) {
			logErrf("failed to start game: %v\n", err)
		}
		return m.push(quiz.Notice{Level: quiz.LevelError, Text: "No questions available for " + string(cfg.Difficulty)})
	}
	m.lastErr = ""
	m.lastTier = ""
	return m.schedule(task)
}

func (m *Model) apply(out quiz.Outcome) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(out.Notices)+2)
	for _, n := range out.Notices {
		cmds = append(cmds, m.push(n))
	}
	if out.Next != nil {
		cmds = append(cmds, m.schedule(*out.Next))
	}
	if out.Snapshot != nil {
		m.lastTier = out.Tier
		cmds = append(cmds, m.save(*out.Snapshot))
	}
	return tea.Batch(cmds...)
}

func (m *Model) schedule(task quiz.Task) tea.Cmd {
	m.pending = task
	return tea.Tick(time.Duration(task.After)*m.opts.TickUnit, func(time.Time) tea.Msg {
		return taskMsg{task: task}
	})
}

func (m *Model) save(snap model.Snapshot) tea.Cmd {
	if m.opts.Saver == nil {
		return nil
	}
	snap.UserID = m.opts.UserID
	saver := m.opts.Saver
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return savedMsg{err: saver.Save(ctx, snap)}
	}
}

func (m *Model) push(n quiz.Notice) tea.Cmd {
	m.nextNoticeID++
	id := m.nextNoticeID
	m.notices = append(m.notices, toast{id: id, notice: n})
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

func (m *Model) dropNotice(id int) {
	kept := m.notices[:0]
	for _, t := range m.notices {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	m.notices = kept
}

func (m *Model) cycleDifficulty(delta int) {
	n := len(model.Difficulties)
	m.difficultyIdx = ((m.difficultyIdx+delta)%n + n) % n
}

func (m *Model) renderMenu() string {
	st := m.session.State()
	lines := []string{titleStyle.Render("WordWise"), ""}
	choices := make([]string, 0, len(model.Difficulties))
	for i, d := range model.Difficulties {
		label := string(d)
		if i == m.difficultyIdx {
			choices = append(choices, activeStyle.Render(label))
		} else {
			choices = append(choices, pendingStyle.Render(label))
		}
	}
	lines = append(lines,
		"Difficulty: "+strings.Join(choices, "  "),
		"",
		fmt.Sprintf("Best streak: %d  Games played: %d  Questions: %d", st.BestStreak, st.GamesPlayed, m.opts.QuestionTotal),
		"",
		footerStyle.Render("←/→ difficulty · enter start · q quit"),
	)
	if m.loading {
		lines = append(lines, "", infoStyle.Render("Loading questions..."))
	}
	if m.lastErr != "" {
		lines = append(lines, "", wrongStyle.Render(m.lastErr))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPlaying() string {
	st := m.session.State()
	q, ok := st.Current()
	if !ok {
		return ""
	}
	width := m.contentWidth()
	header := fmt.Sprintf("Question %d/%d  ·  Time %ds  ·  Score %d  ·  Streak %d",
		st.Index+1, len(st.Questions), st.TimeLeft, st.Score, st.Streak)
	lines := []string{
		footerStyle.Render(header),
		"",
		wrapText(q.Text, questionStyle, width),
		"",
	}
	for i, opt := range q.Options {
		prefix := fmt.Sprintf("%d. ", i+1)
		if i >= maxOptionKeys {
			prefix = "   "
		}
		style := optionStyle
		if st.Revealed {
			switch {
			case i == q.CorrectAnswer:
				style = correctStyle
			case i == st.Selected:
				style = wrongStyle
			default:
				style = pendingStyle
			}
		}
		lines = append(lines, wrapText(prefix+opt, style, width))
	}
	lines = append(lines, "", footerStyle.Render(timerBar(st.TimeLeft, st.TimeLimit, width)))
	return strings.Join(lines, "\n")
}

func (m *Model) renderResults() string {
	st := m.session.State()
	count := len(st.Questions)
	lines := []string{
		titleStyle.Render("Game Over"),
		"",
		fmt.Sprintf("Score: %d (%.0f%%)", st.Score, quiz.Percentage(st.Score, count)),
		fmt.Sprintf("Questions: %d  ·  Difficulty: %s", count, st.Difficulty),
		fmt.Sprintf("Best streak: %d  ·  Games played: %d", st.BestStreak, st.GamesPlayed),
	}
	if m.lastTier != "" {
		lines = append(lines, "", noticeStyle(m.lastTier.Notice().Level).Render(m.lastTier.Notice().Text))
	}
	lines = append(lines, "", footerStyle.Render("r play again · m menu · q quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	if len(m.notices) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.notices))
	for _, t := range m.notices {
		parts = append(parts, noticeStyle(t.notice.Level).Render(t.notice.Text))
	}
	return strings.Join(parts, footerStyle.Render("  ·  "))
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func noticeStyle(level quiz.Level) lipgloss.Style {
	switch level {
	case quiz.LevelSuccess:
		return correctStyle
	case quiz.LevelError:
		return wrongStyle
	default:
		return infoStyle
	}
}

func timerBar(left, limit, width int) string {
	if limit <= 0 {
		return ""
	}
	barWidth := 30
	if width > 0 && width < barWidth {
		barWidth = width
	}
	filled := left * barWidth / limit
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func optionForKey(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
