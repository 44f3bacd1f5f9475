// Package historyui provides the Bubble Tea game history interface.
package historyui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wordwise/internal/model"
	"github.com/verte-zerg/wordwise/internal/stats"
)

const (
	tabOverview = iota
	tabGames
)

const defaultTrendWindow = 3

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Backend loads and deletes stored games. *results.Service satisfies it.
type Backend interface {
	History(ctx context.Context, cfg model.HistoryConfig) []model.Snapshot
	Delete(ctx context.Context, id int64) error
}

// Model implements the Bubble Tea history UI.
type Model struct {
	backend Backend
	cfg     model.HistoryConfig
	window  int

	snaps  []model.Snapshot
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	games     table.Model

	width  int
	height int

	filterMode  bool
	lastInput   textinput.Model
	filterError string
}

// NewModel constructs a history UI model.
func NewModel(backend Backend, cfg model.HistoryConfig) *Model {
	m := &Model{
		backend:  backend,
		cfg:      cfg,
		window:   defaultTrendWindow,
		tabs:     []string{"Overview", "Games"},
		overview: viewport.New(0, 0),
		games:    buildGamesTable(nil, 80, 10),
	}
	m.lastInput = textinput.New()
	m.lastInput.Prompt = "Last: "
	m.lastInput.Cursor.SetMode(cursor.CursorBlink)
	m.refresh()
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
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "d":
			m.cfg.Difficulty = nextDifficulty(m.cfg.Difficulty)
			m.refresh()
			return m, nil
		case "=":
			m.window++
			m.renderOverview()
			return m, nil
		case "-":
			if m.window > 1 {
				m.window--
			}
			m.renderOverview()
			return m, nil
		case "/":
			m.filterMode = true
			m.filterError = ""
			if m.cfg.Last > 0 {
				m.lastInput.SetValue(strconv.Itoa(m.cfg.Last))
			} else {
				m.lastInput.SetValue("")
			}
			return m, m.lastInput.Focus()
		case "x", "delete":
			if m.activeTab == tabGames {
				m.deleteSelected()
			}
			return m, nil
		default:
			if m.activeTab == tabGames {
				var cmd tea.Cmd
				m.games, cmd = m.games.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	m.snaps = m.backend.History(context.Background(), m.cfg)
	m.games.SetRows(gameRows(m.snaps))
	if m.games.Cursor() >= len(m.snaps) {
		m.games.SetCursor(maxInt(0, len(m.snaps)-1))
	}
	m.renderOverview()
}

func (m *Model) deleteSelected() {
	row := m.games.SelectedRow()
	if row == nil {
		return
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		m.errMsg = fmt.Sprintf("invalid game id %q", row[0])
		return
	}
	if err := m.backend.Delete(context.Background(), id); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.refresh()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		m.lastInput.Blur()
		return m, nil
	case tea.KeyEnter:
		raw := strings.TrimSpace(m.lastInput.Value())
		last := 0
		if raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				m.filterError = "invalid last value (use 0 or positive integer)"
				return m, nil
			}
			last = parsed
		}
		m.cfg.Last = last
		m.filterMode = false
		m.filterError = ""
		m.lastInput.Blur()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.lastInput, cmd = m.lastInput.Update(msg)
	return m, cmd
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" || m.filterError != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.games.SetWidth(m.width)
	m.games.SetHeight(maxInt(1, bodyHeight-1))
	m.lastInput.Width = maxInt(10, m.width-lipgloss.Width(m.lastInput.Prompt)-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = ((m.activeTab+delta)%count + count) % count
	if m.activeTab == tabGames {
		m.games.Focus()
	} else {
		m.games.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return padLines(m.renderTabs(), m.width) + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	difficulty := string(m.cfg.Difficulty)
	if difficulty == "" {
		difficulty = "any"
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filters: difficulty=%s  last=%s  window=%d", difficulty, last, m.window)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		help := headerStyle.Render("enter: apply  esc: cancel")
		if m.filterError != "" {
			return help + "\n" + errorStyle.Render(m.filterError)
		}
		return help
	}
	help := "Nav: left/right  Scroll: up/down  Difficulty: d  Window: -/=  Last: /  Quit: q"
	if m.activeTab == tabGames {
		help = "Nav: left/right  Select: up/down  Delete: x  Difficulty: d  Last: /  Quit: q"
	}
	out := headerStyle.Render(help)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return "Show last N games (empty for all)\n" + m.lastInput.View()
	}
	if m.activeTab == tabGames {
		if len(m.snaps) == 0 {
			return "No games found."
		}
		return tableMutedStyle.Render(m.games.View())
	}
	return m.overview.View()
}

func (m *Model) renderOverview() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.snaps, m.window, width))
}

func renderOverview(snaps []model.Snapshot, window, width int) string {
	if len(snaps) == 0 {
		return "No games found."
	}
	agg := stats.Aggregate(snaps)
	cards := []string{
		metricCard("Games", strconv.Itoa(agg.GamesPlayed)),
		metricCard("Best Streak", strconv.Itoa(agg.BestStreak)),
		metricCard("Avg Score", strconv.Itoa(agg.AverageScore)),
		metricCard("Total Score", strconv.Itoa(agg.TotalScore)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	trend := stats.Sparkline(stats.MovingAverage(stats.Scores(snaps), window))
	trend = truncateLine(trend, maxInt(1, width-8))
	return summary + "\n\n" + headerStyle.Render("Score trend (oldest → newest)") + "\n[" + trend + "]"
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func buildGamesTable(snaps []model.Snapshot, width, height int) table.Model {
	t := table.New(
		table.WithColumns(gameColumns()),
		table.WithRows(gameRows(snaps)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(gamesTableStyles())
	return t
}

func gameColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Played", Width: 19},
		{Title: "Difficulty", Width: 10},
		{Title: "Score", Width: 6},
		{Title: "Streak", Width: 6},
		{Title: "Games", Width: 6},
	}
}

func gameRows(snaps []model.Snapshot) []table.Row {
	rows := make([]table.Row, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, table.Row(stats.HistoryRow(s)))
	}
	return rows
}

func gamesTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextDifficulty(d model.Difficulty) model.Difficulty {
	if d == "" {
		return model.Difficulties[0]
	}
	for i, candidate := range model.Difficulties {
		if candidate == d {
			if i+1 < len(model.Difficulties) {
				return model.Difficulties[i+1]
			}
			return ""
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
