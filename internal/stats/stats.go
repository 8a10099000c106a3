// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/mwzhao/hskdrill/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Percentage returns round(100*correct/total), or 0 when total is 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// Accuracy returns the fraction of correct answers, or 0 when total is 0.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// Apply folds a finished session into the aggregates and returns the updated
// copy. Counters only increase and the best score is a running maximum, so
// repeated application over any sequence of results is monotonic.
func Apply(st model.Stats, res model.Result) model.Stats {
	out := st
	out.PerLevel = make(map[int]model.LevelStats, len(st.PerLevel)+1)
	for level, ls := range st.PerLevel {
		out.PerLevel[level] = ls
	}

	answered := len(res.Answers)
	out.TotalQuizzes++
	out.TotalCorrect += res.Correct
	out.TotalQuestions += answered
	if pct := Percentage(res.Correct, answered); pct > out.BestScorePercent {
		out.BestScorePercent = pct
	}

	ls := out.PerLevel[res.Level]
	ls.Quizzes++
	ls.Correct += res.Correct
	ls.Total += answered
	out.PerLevel[res.Level] = ls
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// AccuracyTrend maps session summaries (oldest first) to per-session accuracy
// percentages smoothed over the window.
func AccuracyTrend(sessions []model.SessionSummary, window int) []float64 {
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = Accuracy(s.Correct, s.Correct+s.Incorrect) * 100
	}
	return MovingAverage(values, window)
}
