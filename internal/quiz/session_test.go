package quiz

import (
	"math/rand"
	"testing"

	"github.com/mwzhao/hskdrill/internal/model"
)

func newTestSession(t *testing.T, cfg model.Config, poolSize int) *Session {
	t.Helper()
	return NewSession(cfg, testPool(poolSize), NewDealerWithSource(rand.NewSource(42)))
}

func TestSessionStart(t *testing.T) {
	s := newTestSession(t, model.Config{Level: 1, Mode: model.ModeChineseToEnglish, Questions: 10}, 150)
	if s.Total() != 10 {
		t.Fatalf("expected 10 questions, got %d", s.Total())
	}
	seen := map[string]struct{}{}
	for i := 0; i < s.Total(); i++ {
		seen[s.questions[i].Chinese] = struct{}{}
	}
	if len(seen) != 10 {
		t.Fatalf("expected 10 distinct questions, got %d", len(seen))
	}
	options := s.Options()
	if len(options) != OptionCount {
		t.Fatalf("expected %d options, got %d", OptionCount, len(options))
	}
	found := false
	for _, opt := range options {
		if opt == s.Current().English {
			found = true
		}
	}
	if !found {
		t.Fatalf("options %v missing correct answer %q", options, s.Current().English)
	}
}

func TestSessionCapsQuestionCount(t *testing.T) {
	s := newTestSession(t, model.Config{Mode: model.ModeChineseToEnglish, Questions: 100}, 6)
	if s.Total() != 6 {
		t.Fatalf("expected question count capped to 6, got %d", s.Total())
	}
}

func TestSubmitScoringAndStreaks(t *testing.T) {
	s := newTestSession(t, model.Config{Mode: model.ModeChineseToEnglish, Questions: 5}, 30)

	if !s.Submit(Answer(s.Current(), s.CurrentMode())) {
		t.Fatalf("correct submit not recorded")
	}
	if s.Score() != 1 || s.Streak() != 1 || s.BestStreak() != 1 {
		t.Fatalf("after correct: score=%d streak=%d best=%d", s.Score(), s.Streak(), s.BestStreak())
	}
	s.Advance()

	if !s.Submit("definitely wrong") {
		t.Fatalf("incorrect submit not recorded")
	}
	if s.Score() != 1 || s.Streak() != 0 || s.BestStreak() != 1 {
		t.Fatalf("after incorrect: score=%d streak=%d best=%d", s.Score(), s.Streak(), s.BestStreak())
	}
	s.Advance()

	for i := 0; i < 2; i++ {
		if !s.Submit(Answer(s.Current(), s.CurrentMode())) {
			t.Fatalf("correct submit %d not recorded", i)
		}
		s.Advance()
	}
	if s.Score() != 3 || s.Streak() != 2 || s.BestStreak() != 2 {
		t.Fatalf("after run: score=%d streak=%d best=%d", s.Score(), s.Streak(), s.BestStreak())
	}
}

func TestSubmitIsIdempotentPerQuestion(t *testing.T) {
	s := newTestSession(t, model.Config{Mode: model.ModeChineseToEnglish, Questions: 3}, 30)
	correct := Answer(s.Current(), s.CurrentMode())
	if !s.Submit(correct) {
		t.Fatalf("first submit not recorded")
	}
	if s.Submit(correct) {
		t.Fatalf("second submit on same question was recorded")
	}
	if s.Score() != 1 || len(s.Answers()) != 1 {
		t.Fatalf("duplicate submit changed state: score=%d answers=%d", s.Score(), len(s.Answers()))
	}
}

func TestSkipRecordsSentinelAndAdvances(t *testing.T) {
	s := newTestSession(t, model.Config{Mode: model.ModeEnglishToChinese, Questions: 3}, 30)
	s.Submit(Answer(s.Current(), s.CurrentMode()))
	s.Advance()

	s.Skip()
	answers := s.Answers()
	if len(answers) != 2 {
		t.Fatalf("expected 2 answer records, got %d", len(answers))
	}
	last := answers[len(answers)-1]
	if last.UserAnswer != SkippedAnswer || last.Correct {
		t.Fatalf("unexpected skip record: %+v", last)
	}
	if s.Streak() != 0 {
		t.Fatalf("expected streak reset after skip, got %d", s.Streak())
	}
	if s.CurrentIndex() != 2 {
		t.Fatalf("expected skip to advance to index 2, got %d", s.CurrentIndex())
	}
}

func TestFinishResultConsistency(t *testing.T) {
	s := newTestSession(t, model.Config{Level: 3, Mode: model.ModeMixed, Questions: 6}, 40)
	for i := 0; i < 6; i++ {
		switch i % 3 {
		case 0:
			s.Submit(Answer(s.Current(), s.CurrentMode()))
			s.Advance()
		case 1:
			s.Submit("wrong")
			s.Advance()
		default:
			s.Skip()
		}
	}
	if s.State() != StateFinished {
		t.Fatalf("expected session finished")
	}
	res := s.Finish()
	if res.Correct+res.Incorrect != len(res.Answers) {
		t.Fatalf("correct+incorrect=%d, answers=%d", res.Correct+res.Incorrect, len(res.Answers))
	}
	if res.Skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", res.Skipped)
	}
	if res.Correct != 2 || res.Incorrect != 4 {
		t.Fatalf("unexpected result: %+v", res)
	}
	// Finish is idempotent.
	again := s.Finish()
	if again.Correct != res.Correct || len(again.Answers) != len(res.Answers) {
		t.Fatalf("second Finish returned a different result")
	}
}

func TestMixedModePinnedPerQuestion(t *testing.T) {
	s := newTestSession(t, model.Config{Mode: model.ModeMixed, Questions: 8}, 40)
	for i := 0; i < 8; i++ {
		mode := s.CurrentMode()
		if mode == model.ModeMixed || !mode.Valid() {
			t.Fatalf("question %d: unresolved mode %q", i, mode)
		}
		if got := s.CurrentMode(); got != mode {
			t.Fatalf("mode re-resolved between reads: %s then %s", mode, got)
		}
		s.Submit(Answer(s.Current(), mode))
		if rec := s.Answers()[i]; rec.Mode != mode || !rec.Correct {
			t.Fatalf("question %d: record mode %s, graded mode %s", i, rec.Mode, mode)
		}
		s.Advance()
	}
}

func TestTimeoutForcesFinish(t *testing.T) {
	s := newTestSession(t, model.Config{Mode: model.ModeChineseToEnglish, Questions: 10, TimeLimitSec: 5}, 30)
	for i := 0; i < 4; i++ {
		if s.Tick() {
			t.Fatalf("tick %d finished early", i)
		}
	}
	if !s.Tick() {
		t.Fatalf("expected final tick to finish the session")
	}
	if s.State() != StateFinished {
		t.Fatalf("expected finished state after timeout")
	}
	res := s.Finish()
	if len(res.Answers) != 0 {
		t.Fatalf("expected no answers, got %d", len(res.Answers))
	}
	if s.Tick() {
		t.Fatalf("tick after finish should be a no-op")
	}
}

func TestTickWithoutTimeLimitIsNoop(t *testing.T) {
	s := newTestSession(t, model.Config{Mode: model.ModeChineseToEnglish, Questions: 2}, 30)
	for i := 0; i < 100; i++ {
		if s.Tick() {
			t.Fatalf("tick finished a session without a time limit")
		}
	}
	if s.State() != StateRunning {
		t.Fatalf("expected session still running")
	}
}
