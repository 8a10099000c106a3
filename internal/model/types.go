// Package model defines shared data structures.
package model

import "time"

// Entry is a single vocabulary item.
type Entry struct {
	Chinese string `json:"chinese"`
	English string `json:"english"`
	Pinyin  string `json:"pinyin"`
}

// Mode is the direction/type of a quiz question.
type Mode string

// Quiz modes. Mixed resolves to one of the concrete modes per question.
const (
	ModeChineseToEnglish Mode = "zh-en"
	ModeEnglishToChinese Mode = "en-zh"
	ModePinyinToChinese  Mode = "py-zh"
	ModeChineseToPinyin  Mode = "zh-py"
	ModeMixed            Mode = "mixed"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeChineseToEnglish, ModeEnglishToChinese, ModePinyinToChinese, ModeChineseToPinyin, ModeMixed:
		return true
	}
	return false
}

// Config defines quiz settings. Immutable for the duration of a session.
type Config struct {
	Level        int
	Mode         Mode
	Questions    int
	TimeLimitSec int
	PinyinHints  bool
}

// AnswerRecord captures one graded (or skipped) question. Append-only.
// Mode is the concrete mode pinned when the question's options were built,
// so grading and later review always agree.
type AnswerRecord struct {
	Entry      Entry
	Mode       Mode
	UserAnswer string
	Correct    bool
	Options    []string
}

// Result is the immutable snapshot of a finished session.
type Result struct {
	Level        int
	Mode         Mode
	Correct      int
	Incorrect    int
	Skipped      int
	TimeTakenSec int
	StartedAt    time.Time
	EndedAt      time.Time
	Answers      []AnswerRecord
}

// LevelStats aggregates finished sessions for one level.
type LevelStats struct {
	Quizzes int
	Correct int
	Total   int
}

// Stats aggregates all finished sessions. Counters only increase;
// BestScorePercent is a running maximum.
type Stats struct {
	TotalQuizzes     int
	TotalCorrect     int
	TotalQuestions   int
	BestScorePercent int
	PerLevel         map[int]LevelStats
}

// SessionSummary summarizes a persisted session for history views.
type SessionSummary struct {
	SessionID   int64
	EndedAt     time.Time
	Level       int
	Mode        Mode
	Correct     int
	Incorrect   int
	Skipped     int
	DurationSec int
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	Level int
	Last  int
}
