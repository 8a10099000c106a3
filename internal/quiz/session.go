package quiz

import (
	"time"

	"github.com/mwzhao/hskdrill/internal/model"
)

// SkippedAnswer is the sentinel stored for skipped questions.
const SkippedAnswer = "Skipped"

// State is the lifecycle state of a session.
type State int

// Session states.
const (
	StateRunning State = iota
	StateFinished
)

// Session runs one quiz from start to finish. All methods are single-caller;
// the UI event loop serializes access.
type Session struct {
	cfg    model.Config
	dealer *Dealer
	pool   []model.Entry

	questions []model.Entry
	modes     []model.Mode
	options   []string

	current    int
	answered   bool
	score      int
	streak     int
	bestStreak int

	startedAt time.Time
	remaining int
	answers   []model.AnswerRecord

	state  State
	result *model.Result
}

// NewSession samples cfg.Questions entries without replacement from catalog
// and prepares the first question. A question count beyond the catalog size
// is capped, not an error.
func NewSession(cfg model.Config, catalog []model.Entry, dealer *Dealer) *Session {
	s := &Session{
		cfg:       cfg,
		dealer:    dealer,
		pool:      catalog,
		questions: dealer.Sample(catalog, cfg.Questions),
		startedAt: time.Now(),
		remaining: cfg.TimeLimitSec,
	}
	s.modes = make([]model.Mode, len(s.questions))
	s.prepareQuestion()
	return s
}

// prepareQuestion pins the effective mode for the current question and builds
// its options. Mixed mode is resolved exactly once per question, here.
func (s *Session) prepareQuestion() {
	if s.current >= len(s.questions) {
		return
	}
	mode := s.dealer.ResolveMode(s.cfg.Mode)
	s.modes[s.current] = mode
	s.options = s.dealer.Options(s.questions[s.current], s.pool, mode)
	s.answered = false
}

// State returns the session lifecycle state.
func (s *Session) State() State { return s.state }

// Config returns the settings the session was started with.
func (s *Session) Config() model.Config { return s.cfg }

// Total returns the number of questions actually served.
func (s *Session) Total() int { return len(s.questions) }

// CurrentIndex returns the zero-based index of the current question.
func (s *Session) CurrentIndex() int { return s.current }

// Current returns the current question entry.
func (s *Session) Current() model.Entry { return s.questions[s.current] }

// CurrentMode returns the concrete mode pinned for the current question.
func (s *Session) CurrentMode() model.Mode { return s.modes[s.current] }

// Options returns the four choices shown for the current question.
func (s *Session) Options() []string { return s.options }

// Answered reports whether the current question has a recorded answer.
func (s *Session) Answered() bool { return s.answered }

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.score }

// Streak returns the current run of consecutive correct answers.
func (s *Session) Streak() int { return s.streak }

// BestStreak returns the longest streak observed this session.
func (s *Session) BestStreak() int { return s.bestStreak }

// Answers returns the records appended so far.
func (s *Session) Answers() []model.AnswerRecord { return s.answers }

// Remaining returns the seconds left, or 0 when no limit is set.
func (s *Session) Remaining() int { return s.remaining }

// HasTimeLimit reports whether a countdown is configured.
func (s *Session) HasTimeLimit() bool { return s.cfg.TimeLimitSec > 0 }

// Submit grades answer against the current question and reports whether it
// was recorded. A question can only be answered once; repeated submissions
// and submissions after finish are no-ops.
func (s *Session) Submit(answer string) bool {
	if s.state != StateRunning || s.answered || s.current >= len(s.questions) {
		return false
	}
	mode := s.modes[s.current]
	correct := answer == Answer(s.questions[s.current], mode)
	s.answers = append(s.answers, model.AnswerRecord{
		Entry:      s.questions[s.current],
		Mode:       mode,
		UserAnswer: answer,
		Correct:    correct,
		Options:    s.options,
	})
	if correct {
		s.score++
		s.streak++
		if s.streak > s.bestStreak {
			s.bestStreak = s.streak
		}
	} else {
		s.streak = 0
	}
	s.answered = true
	return true
}

// Skip records the current question as skipped, resets the streak, and
// advances.
func (s *Session) Skip() {
	if s.state != StateRunning || s.answered || s.current >= len(s.questions) {
		return
	}
	s.answers = append(s.answers, model.AnswerRecord{
		Entry:      s.questions[s.current],
		Mode:       s.modes[s.current],
		UserAnswer: SkippedAnswer,
		Correct:    false,
		Options:    s.options,
	})
	s.streak = 0
	s.answered = true
	s.Advance()
}

// Advance moves to the next question, or finishes the session when the
// current question is the last one.
func (s *Session) Advance() {
	if s.state != StateRunning {
		return
	}
	if s.current >= len(s.questions)-1 {
		s.Finish()
		return
	}
	s.current++
	s.prepareQuestion()
}

// Tick consumes one second of the countdown and reports whether it forced
// the session to finish. It is a no-op without a time limit.
func (s *Session) Tick() bool {
	if s.state != StateRunning || !s.HasTimeLimit() {
		return false
	}
	s.remaining--
	if s.remaining > 0 {
		return false
	}
	s.remaining = 0
	s.Finish()
	return true
}

// Finish transitions to StateFinished and builds the result snapshot. It is
// idempotent; repeated calls return the same result.
func (s *Session) Finish() model.Result {
	if s.result != nil {
		return *s.result
	}
	endedAt := time.Now()
	skipped := 0
	for _, rec := range s.answers {
		if rec.UserAnswer == SkippedAnswer {
			skipped++
		}
	}
	res := model.Result{
		Level:        s.cfg.Level,
		Mode:         s.cfg.Mode,
		Correct:      s.score,
		Incorrect:    len(s.answers) - s.score,
		Skipped:      skipped,
		TimeTakenSec: int(endedAt.Sub(s.startedAt).Seconds()),
		StartedAt:    s.startedAt,
		EndedAt:      endedAt,
		Answers:      s.answers,
	}
	s.result = &res
	s.state = StateFinished
	return res
}
