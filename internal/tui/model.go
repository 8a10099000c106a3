// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwzhao/hskdrill/internal/model"
	"github.com/mwzhao/hskdrill/internal/quiz"
	statsPkg "github.com/mwzhao/hskdrill/internal/stats"
	"github.com/mwzhao/hskdrill/internal/store"
)

type screen int

const (
	screenReady screen = iota
	screenRunning
	screenFinished
	screenReviewing
)

// tickMsg carries the session serial so ticks from an abandoned session are
// ignored.
type tickMsg struct {
	serial int
}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	cfg     model.Config
	store   *store.Store
	dealer  *quiz.Dealer
	catalog []model.Entry

	session *quiz.Session
	serial  int
	screen  screen

	hintShown bool
	selected  string

	lastResult model.Result
	allStats   model.Stats

	reviewOffset int

	width  int
	height int
}

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	optionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	bannerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// NewModel constructs a quiz TUI model.
func NewModel(cfg model.Config, st *store.Store, dealer *quiz.Dealer, catalog []model.Entry) *Model {
	m := &Model{
		cfg:     cfg,
		store:   st,
		dealer:  dealer,
		catalog: catalog,
		screen:  screenReady,
	}
	m.loadAllStats()
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
	case tickMsg:
		return m.handleTick(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	// A tick from a finished or restarted session is stale.
	if msg.serial != m.serial || m.screen != screenRunning {
		return m, nil
	}
	if m.session.Tick() {
		m.finishSession()
		return m, nil
	}
	return m, m.tickCmd()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.screen {
	case screenReady:
		return m.handleReadyKey(msg)
	case screenRunning:
		return m.handleRunningKey(msg)
	case screenFinished:
		return m.handleFinishedKey(msg)
	case screenReviewing:
		return m.handleReviewKey(msg)
	}
	return m, nil
}

func (m *Model) handleReadyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter", " ":
		return m.startSession()
	}
	return m, nil
}

func (m *Model) startSession() (tea.Model, tea.Cmd) {
	m.serial++
	m.session = quiz.NewSession(m.cfg, m.catalog, m.dealer)
	m.screen = screenRunning
	m.hintShown = false
	m.selected = ""
	if m.session.HasTimeLimit() {
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *Model) tickCmd() tea.Cmd {
	serial := m.serial
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{serial: serial}
	})
}

func (m *Model) handleRunningKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1", "2", "3", "4":
		if m.session.Answered() {
			return m, nil
		}
		idx := int(msg.String()[0] - '1')
		options := m.session.Options()
		if idx >= len(options) {
			return m, nil
		}
		m.selected = options[idx]
		m.session.Submit(m.selected)
		return m, nil
	case "s":
		if m.session.Answered() {
			return m, nil
		}
		m.session.Skip()
		m.hintShown = false
		m.selected = ""
		if m.session.State() == quiz.StateFinished {
			m.finishSession()
		}
		return m, nil
	case "h":
		if m.cfg.PinyinHints && quiz.PromptIsChinese(m.session.CurrentMode()) {
			m.hintShown = true
		}
		return m, nil
	case "enter", " ":
		if !m.session.Answered() {
			return m, nil
		}
		m.session.Advance()
		m.hintShown = false
		m.selected = ""
		if m.session.State() == quiz.StateFinished {
			m.finishSession()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) finishSession() {
	m.lastResult = m.session.Finish()
	m.screen = screenFinished

	ctx := context.Background()
	updated, err := m.store.RecordSession(ctx, m.lastResult)
	if err != nil {
		logErrf("failed to save session: %v\n", err)
		m.allStats = statsPkg.Apply(m.allStats, m.lastResult)
		return
	}
	m.allStats = updated
}

func (m *Model) handleFinishedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		m.reviewOffset = 0
		m.screen = screenReviewing
		return m, nil
	case "enter", " ":
		m.screen = screenReady
		return m, nil
	}
	return m, nil
}

func (m *Model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "enter":
		m.screen = screenFinished
		return m, nil
	case "up", "k":
		if m.reviewOffset > 0 {
			m.reviewOffset--
		}
		return m, nil
	case "down", "j":
		if m.reviewOffset < len(m.lastResult.Answers)-1 {
			m.reviewOffset++
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenReady:
		content = m.viewReady()
	case screenRunning:
		content = m.viewRunning()
	case screenFinished:
		content = m.viewFinished()
	case screenReviewing:
		content = m.viewReview()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) viewReady() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render(fmt.Sprintf("HSK%d quiz", m.cfg.Level)))
	b.WriteString("\n\n")
	b.WriteString(optionStyle.Render(fmt.Sprintf("Mode: %s", modeLabel(m.cfg.Mode))))
	b.WriteString("\n")
	b.WriteString(optionStyle.Render(fmt.Sprintf("Questions: %d", m.cfg.Questions)))
	b.WriteString("\n")
	if m.cfg.TimeLimitSec > 0 {
		b.WriteString(optionStyle.Render(fmt.Sprintf("Time limit: %s", formatClock(m.cfg.TimeLimitSec))))
	} else {
		b.WriteString(optionStyle.Render("Time limit: none"))
	}
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("enter start · q quit"))
	return b.String()
}

func (m *Model) viewRunning() string {
	s := m.session
	entry := s.Current()
	mode := s.CurrentMode()
	correct := quiz.Answer(entry, mode)

	var b strings.Builder
	b.WriteString(optionStyle.Render(fmt.Sprintf("Question %d/%d", s.CurrentIndex()+1, s.Total())))
	if s.HasTimeLimit() {
		b.WriteString(optionStyle.Render(fmt.Sprintf(" · %s", formatClock(s.Remaining()))))
	}
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render(quiz.Prompt(entry, mode)))
	if m.hintShown {
		b.WriteString(hintStyle.Render(fmt.Sprintf("  [%s]", entry.Pinyin)))
	}
	b.WriteString("\n\n")

	for i, opt := range s.Options() {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		switch {
		case s.Answered() && opt == correct:
			line = correctStyle.Render(line)
		case s.Answered() && opt == m.selected:
			line = incorrectStyle.Render(line)
		default:
			line = optionStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if s.Answered() {
		b.WriteString(hintStyle.Render("enter next"))
	} else {
		keys := "1-4 answer · s skip"
		if m.cfg.PinyinHints && quiz.PromptIsChinese(mode) {
			keys += " · h hint"
		}
		b.WriteString(hintStyle.Render(keys))
	}
	return b.String()
}

func (m *Model) viewFinished() string {
	res := m.lastResult
	answered := len(res.Answers)
	pct := statsPkg.Percentage(res.Correct, answered)

	var b strings.Builder
	if pct >= 80 {
		b.WriteString(bannerStyle.Render("★ Great run! ★"))
		b.WriteString("\n\n")
	}
	b.WriteString(promptStyle.Render(fmt.Sprintf("Score %d/%d (%d%%)", res.Correct, answered, pct)))
	b.WriteString("\n\n")
	b.WriteString(optionStyle.Render(fmt.Sprintf("Correct %d · Incorrect %d · Skipped %d", res.Correct, res.Incorrect-res.Skipped, res.Skipped)))
	b.WriteString("\n")
	b.WriteString(optionStyle.Render(fmt.Sprintf("Best streak: %d", m.session.BestStreak())))
	b.WriteString("\n")
	b.WriteString(optionStyle.Render(fmt.Sprintf("Time: %s", formatClock(res.TimeTakenSec))))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("r review · enter new quiz · q quit"))
	return b.String()
}

func (m *Model) viewReview() string {
	answers := m.lastResult.Answers
	if len(answers) == 0 {
		return optionStyle.Render("Nothing to review.") + "\n\n" + hintStyle.Render("esc back")
	}
	rec := answers[m.reviewOffset]
	correct := quiz.Answer(rec.Entry, rec.Mode)

	var b strings.Builder
	b.WriteString(optionStyle.Render(fmt.Sprintf("Answer %d/%d · %s", m.reviewOffset+1, len(answers), modeLabel(rec.Mode))))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render(quiz.Prompt(rec.Entry, rec.Mode)))
	b.WriteString(hintStyle.Render(fmt.Sprintf("  [%s]", rec.Entry.Pinyin)))
	b.WriteString("\n\n")
	for _, opt := range rec.Options {
		line := opt
		switch {
		case opt == correct:
			line = correctStyle.Render("✓ " + opt)
		case opt == rec.UserAnswer:
			line = incorrectStyle.Render("✗ " + opt)
		default:
			line = optionStyle.Render("  " + opt)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if rec.UserAnswer == quiz.SkippedAnswer {
		b.WriteString(incorrectStyle.Render("Skipped"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("j/k browse · esc back"))
	return b.String()
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.screen == screenRunning {
		s := m.session
		segments = append(segments,
			fmt.Sprintf("Score %d", s.Score()),
			fmt.Sprintf("Streak %d (best %d)", s.Streak(), s.BestStreak()),
		)
	}
	if m.allStats.TotalQuizzes > 0 {
		segments = append(segments, fmt.Sprintf("All-time %d%% · best %d%%",
			statsPkg.Percentage(m.allStats.TotalCorrect, m.allStats.TotalQuestions),
			m.allStats.BestScorePercent))
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) loadAllStats() {
	st, err := m.store.LoadStats(context.Background())
	if err != nil {
		// Malformed persisted stats degrade to zeroed defaults.
		logErrf("failed to load stats: %v\n", err)
		m.allStats = model.Stats{PerLevel: map[int]model.LevelStats{}}
		return
	}
	m.allStats = st
}

func modeLabel(mode model.Mode) string {
	switch mode {
	case model.ModeChineseToEnglish:
		return "Chinese → English"
	case model.ModeEnglishToChinese:
		return "English → Chinese"
	case model.ModePinyinToChinese:
		return "Pinyin → Chinese"
	case model.ModeChineseToPinyin:
		return "Chinese → Pinyin"
	case model.ModeMixed:
		return "Mixed"
	default:
		return string(mode)
	}
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
