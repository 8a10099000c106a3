// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwzhao/hskdrill/internal/model"
	"github.com/mwzhao/hskdrill/internal/quiz"
	"github.com/mwzhao/hskdrill/internal/stats"
	"github.com/mwzhao/hskdrill/internal/store"
)

const (
	tabOverview = iota
	tabLevels
	tabHistory
)

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
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle      = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	allStats model.Stats
	sessions []model.SessionSummary
	errMsg   string

	tabs      []string
	activeTab int

	historyTable table.Model

	detailOpen     bool
	detailViewport viewport.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Levels", "History"},
	}
	m.initHistoryTable()
	m.detailViewport = viewport.New(60, 20)
	m.refresh()
	return m
}

func (m *Model) initHistoryTable() {
	columns := []table.Column{
		{Title: "Finished", Width: 17},
		{Title: "Level", Width: 6},
		{Title: "Mode", Width: 6},
		{Title: "Score", Width: 7},
		{Title: "Acc", Width: 5},
		{Title: "Time", Width: 6},
	}
	m.historyTable = table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

func (m *Model) refresh() {
	ctx := context.Background()
	st, err := m.store.LoadStats(ctx)
	if err != nil {
		// Malformed persisted stats degrade to zeroed defaults.
		st = model.Stats{PerLevel: map[int]model.LevelStats{}}
	}
	m.allStats = st

	sessions, err := m.store.ListSessions(ctx, m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load sessions: %v", err)
		return
	}
	m.errMsg = ""
	m.sessions = sessions

	rows := make([]table.Row, 0, len(sessions))
	// Newest first in the table.
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		total := s.Correct + s.Incorrect
		rows = append(rows, table.Row{
			s.EndedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("HSK%d", s.Level),
			string(s.Mode),
			fmt.Sprintf("%d/%d", s.Correct, total),
			fmt.Sprintf("%d%%", stats.Percentage(s.Correct, total)),
			fmt.Sprintf("%ds", s.DurationSec),
		})
	}
	m.historyTable.SetRows(rows)
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
		m.detailViewport.Width = msg.Width - 4
		m.detailViewport.Height = msg.Height - 6
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
	if m.detailOpen {
		switch msg.String() {
		case "q", "esc", "enter":
			m.detailOpen = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}
	}
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "tab", "right", "l":
		m.activeTab = (m.activeTab + 1) % len(m.tabs)
		return m, nil
	case "shift+tab", "left", "h":
		m.activeTab = (m.activeTab + len(m.tabs) - 1) % len(m.tabs)
		return m, nil
	case "enter":
		if m.activeTab == tabHistory {
			m.openDetail()
		}
		return m, nil
	}
	if m.activeTab == tabHistory {
		var cmd tea.Cmd
		m.historyTable, cmd = m.historyTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

// openDetail loads the answer records of the selected session into the
// viewport.
func (m *Model) openDetail() {
	cursor := m.historyTable.Cursor()
	if cursor < 0 || cursor >= len(m.sessions) {
		return
	}
	// Table rows are newest first; sessions are oldest first.
	session := m.sessions[len(m.sessions)-1-cursor]
	answers, err := m.store.ListAnswers(context.Background(), session.SessionID)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load answers: %v", err)
		return
	}
	var buf bytes.Buffer
	for i, rec := range answers {
		correct := quiz.Answer(rec.Entry, rec.Mode)
		status := correctStyle.Render("correct")
		if rec.UserAnswer == quiz.SkippedAnswer {
			status = mutedStyle.Render("skipped")
		} else if !rec.Correct {
			status = incorrectStyle.Render(fmt.Sprintf("answered %q", rec.UserAnswer))
		}
		fmt.Fprintf(&buf, "%2d. %s [%s] — %s (%s)\n",
			i+1, quiz.Prompt(rec.Entry, rec.Mode), rec.Entry.Pinyin, correct, status)
	}
	if len(answers) == 0 {
		buf.WriteString("No answers recorded.\n")
	}
	m.detailViewport.SetContent(buf.String())
	m.detailViewport.GotoTop()
	m.detailOpen = true
}

// View implements tea.Model.
func (m *Model) View() string {
	var b bytes.Buffer
	b.WriteString(m.renderNav())
	b.WriteString("\n\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}
	if m.detailOpen {
		b.WriteString(m.detailViewport.View())
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("esc back"))
		return b.String()
	}
	switch m.activeTab {
	case tabOverview:
		b.WriteString(m.renderOverview())
	case tabLevels:
		b.WriteString(m.renderLevels())
	case tabHistory:
		b.WriteString(m.historyTable.View())
		b.WriteString("\n\n")
		trend := stats.AccuracyTrend(m.sessions, 5)
		if len(trend) > 1 {
			b.WriteString(headerStyle.Render("Accuracy trend: " + stats.Sparkline(trend)))
			b.WriteString("\n")
		}
		b.WriteString(headerStyle.Render("enter details · j/k move"))
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("tab switch · q quit"))
	return b.String()
}

func (m *Model) renderNav() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m *Model) renderOverview() string {
	st := m.allStats
	if st.TotalQuizzes == 0 {
		return mutedStyle.Render("No quizzes recorded yet.")
	}
	cards := []string{
		renderCard("Quizzes", strconv.Itoa(st.TotalQuizzes)),
		renderCard("Questions", strconv.Itoa(st.TotalQuestions)),
		renderCard("Accuracy", fmt.Sprintf("%d%%", stats.Percentage(st.TotalCorrect, st.TotalQuestions))),
		renderCard("Best score", fmt.Sprintf("%d%%", st.BestScorePercent)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cards...)
}

func renderCard(title, value string) string {
	content := cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}

func (m *Model) renderLevels() string {
	st := m.allStats
	if len(st.PerLevel) == 0 {
		return mutedStyle.Render("No per-level stats found.")
	}
	levels := make([]int, 0, len(st.PerLevel))
	for level := range st.PerLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	var buf bytes.Buffer
	for _, level := range levels {
		ls := st.PerLevel[level]
		fmt.Fprintf(&buf, "%s  %s quizzes, %s  %s\n",
			cardValueStyle.Render(fmt.Sprintf("HSK%d", level)),
			mutedStyle.Render(strconv.Itoa(ls.Quizzes)),
			mutedStyle.Render(fmt.Sprintf("%d/%d correct", ls.Correct, ls.Total)),
			cardValueStyle.Render(fmt.Sprintf("%d%%", stats.Percentage(ls.Correct, ls.Total))))
	}
	return buf.String()
}
