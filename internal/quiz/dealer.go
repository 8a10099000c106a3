package quiz

import (
	"math/rand"
	"time"

	"github.com/mwzhao/hskdrill/internal/model"
)

// OptionCount is the number of choices shown per question.
const OptionCount = 4

// Dealer produces randomized question material.
type Dealer struct {
	rnd *rand.Rand
}

// NewDealer returns a Dealer seeded with the current time.
func NewDealer() *Dealer {
	return NewDealerWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewDealerWithSource returns a Dealer backed by the given source.
func NewDealerWithSource(src rand.Source) *Dealer {
	return &Dealer{rnd: rand.New(src)}
}

// Shuffle returns a uniformly random permutation of entries. The input is not
// mutated.
func (d *Dealer) Shuffle(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	copy(out, entries)
	for i := len(out) - 1; i > 0; i-- {
		j := d.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ShuffleStrings returns a uniformly random permutation of values. The input
// is not mutated.
func (d *Dealer) ShuffleStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	for i := len(out) - 1; i > 0; i-- {
		j := d.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Sample returns n entries drawn without replacement from entries, capped to
// the catalog size.
func (d *Dealer) Sample(entries []model.Entry, n int) []model.Entry {
	shuffled := d.Shuffle(entries)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// ResolveMode maps Mixed to a uniformly random concrete mode; concrete modes
// pass through unchanged.
func (d *Dealer) ResolveMode(mode model.Mode) model.Mode {
	if mode != model.ModeMixed {
		return mode
	}
	return ConcreteModes[d.rnd.Intn(len(ConcreteModes))]
}

// Options builds the displayed choices for correct: the correct answer plus
// three distinct distractors drawn from pool, in random order. The pool must
// contain at least OptionCount distinct values for the mode's answer field;
// catalog loading enforces this.
func (d *Dealer) Options(correct model.Entry, pool []model.Entry, mode model.Mode) []string {
	options := []string{Answer(correct, mode)}
	seen := map[string]struct{}{options[0]: {}}
	for len(options) < OptionCount {
		candidate := Answer(pool[d.rnd.Intn(len(pool))], mode)
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		options = append(options, candidate)
	}
	return d.ShuffleStrings(options)
}
