package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/mwzhao/hskdrill/internal/model"
)

// RenderSummary prints the all-time aggregates.
func RenderSummary(w io.Writer, st model.Stats) error {
	if st.TotalQuizzes == 0 {
		_, err := fmt.Fprintln(w, "No quizzes recorded yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Quizzes: %d\n", st.TotalQuizzes); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Questions: %d\n", st.TotalQuestions); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Correct: %d (%d%%)\n", st.TotalCorrect, Percentage(st.TotalCorrect, st.TotalQuestions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best score: %d%%\n", st.BestScorePercent); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderLevelTable prints per-level aggregates, lowest level first.
func RenderLevelTable(w io.Writer, st model.Stats) error {
	if len(st.PerLevel) == 0 {
		_, err := fmt.Fprintln(w, "No per-level stats found.")
		return err
	}
	levels := make([]int, 0, len(st.PerLevel))
	for level := range st.PerLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	rows := make([][]string, 0, len(levels))
	for _, level := range levels {
		ls := st.PerLevel[level]
		rows = append(rows, []string{
			fmt.Sprintf("HSK%d", level),
			strconv.Itoa(ls.Quizzes),
			strconv.Itoa(ls.Correct),
			strconv.Itoa(ls.Total),
			fmt.Sprintf("%d%%", Percentage(ls.Correct, ls.Total)),
		})
	}
	lines := formatTable(
		[]string{"Level", "Quizzes", "Correct", "Total", "Accuracy"},
		rows,
		map[int]bool{1: true, 2: true, 3: true, 4: true},
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHistory prints recent sessions (oldest first) and an accuracy trend
// sparkline capped to width columns.
func RenderHistory(w io.Writer, sessions []model.SessionSummary, window, width int) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		total := s.Correct + s.Incorrect
		rows = append(rows, []string{
			s.EndedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("HSK%d", s.Level),
			string(s.Mode),
			fmt.Sprintf("%d/%d", s.Correct, total),
			fmt.Sprintf("%d%%", Percentage(s.Correct, total)),
			fmt.Sprintf("%ds", s.DurationSec),
		})
	}
	lines := formatTable(
		[]string{"Finished", "Level", "Mode", "Score", "Accuracy", "Time"},
		rows,
		map[int]bool{3: true, 4: true, 5: true},
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	trend := AccuracyTrend(sessions, window)
	if width > 0 && len(trend) > width {
		trend = trend[len(trend)-width:]
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Accuracy trend: %s\n", Sparkline(trend)); err != nil {
		return err
	}
	return nil
}

// RenderReport prints the full plain-text report.
func RenderReport(w io.Writer, st model.Stats, sessions []model.SessionSummary, window, width int) error {
	if err := RenderSummary(w, st); err != nil {
		return err
	}
	if err := RenderLevelTable(w, st); err != nil {
		return err
	}
	return RenderHistory(w, sessions, window, width)
}
