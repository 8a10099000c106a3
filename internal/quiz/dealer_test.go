package quiz

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/mwzhao/hskdrill/internal/model"
)

func testPool(n int) []model.Entry {
	entries := make([]model.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, model.Entry{
			Chinese: fmt.Sprintf("汉%d", i),
			English: fmt.Sprintf("word%d", i),
			Pinyin:  fmt.Sprintf("pin%d", i),
		})
	}
	return entries
}

func TestShuffleIsPermutation(t *testing.T) {
	dealer := NewDealerWithSource(rand.NewSource(1))
	input := testPool(50)
	original := make([]model.Entry, len(input))
	copy(original, input)

	shuffled := dealer.Shuffle(input)
	if len(shuffled) != len(input) {
		t.Fatalf("expected %d entries, got %d", len(input), len(shuffled))
	}
	for i, e := range input {
		if e != original[i] {
			t.Fatalf("input mutated at index %d", i)
		}
	}
	sorted := make([]model.Entry, len(shuffled))
	copy(sorted, shuffled)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].English < sorted[j].English })
	sort.Slice(original, func(i, j int) bool { return original[i].English < original[j].English })
	for i := range sorted {
		if sorted[i] != original[i] {
			t.Fatalf("shuffle is not a permutation: mismatch at %d", i)
		}
	}
}

func TestSampleWithoutReplacement(t *testing.T) {
	dealer := NewDealerWithSource(rand.NewSource(2))
	pool := testPool(150)
	sampled := dealer.Sample(pool, 10)
	if len(sampled) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(sampled))
	}
	seen := map[string]struct{}{}
	for _, e := range sampled {
		if _, ok := seen[e.Chinese]; ok {
			t.Fatalf("duplicate entry %q in sample", e.Chinese)
		}
		seen[e.Chinese] = struct{}{}
	}
}

func TestSampleCapsToCatalogSize(t *testing.T) {
	dealer := NewDealerWithSource(rand.NewSource(3))
	pool := testPool(7)
	sampled := dealer.Sample(pool, 100)
	if len(sampled) != 7 {
		t.Fatalf("expected sample capped to 7, got %d", len(sampled))
	}
}

func TestOptionsValidity(t *testing.T) {
	pool := testPool(20)
	modes := []model.Mode{
		model.ModeChineseToEnglish,
		model.ModeEnglishToChinese,
		model.ModePinyinToChinese,
		model.ModeChineseToPinyin,
	}
	for seed := int64(0); seed < 20; seed++ {
		dealer := NewDealerWithSource(rand.NewSource(seed))
		for _, mode := range modes {
			correct := pool[int(seed)%len(pool)]
			options := dealer.Options(correct, pool, mode)
			if len(options) != OptionCount {
				t.Fatalf("mode %s: expected %d options, got %d", mode, OptionCount, len(options))
			}
			seen := map[string]struct{}{}
			correctHits := 0
			for _, opt := range options {
				if _, ok := seen[opt]; ok {
					t.Fatalf("mode %s: duplicate option %q", mode, opt)
				}
				seen[opt] = struct{}{}
				if opt == Answer(correct, mode) {
					correctHits++
				}
			}
			if correctHits != 1 {
				t.Fatalf("mode %s: expected exactly one correct option, got %d", mode, correctHits)
			}
		}
	}
}

func TestResolveMode(t *testing.T) {
	dealer := NewDealerWithSource(rand.NewSource(4))
	if got := dealer.ResolveMode(model.ModeChineseToPinyin); got != model.ModeChineseToPinyin {
		t.Fatalf("concrete mode changed: %s", got)
	}
	seen := map[model.Mode]struct{}{}
	for i := 0; i < 200; i++ {
		resolved := dealer.ResolveMode(model.ModeMixed)
		if resolved == model.ModeMixed {
			t.Fatalf("mixed resolved to mixed")
		}
		if !resolved.Valid() {
			t.Fatalf("mixed resolved to unknown mode %q", resolved)
		}
		seen[resolved] = struct{}{}
	}
	if len(seen) != len(ConcreteModes) {
		t.Fatalf("expected all concrete modes over 200 draws, got %d", len(seen))
	}
}

func TestPromptAndAnswerMappings(t *testing.T) {
	entry := model.Entry{Chinese: "水", English: "water", Pinyin: "shuǐ"}
	cases := []struct {
		mode   model.Mode
		prompt string
		answer string
	}{
		{model.ModeChineseToEnglish, "水", "water"},
		{model.ModeEnglishToChinese, "water", "水"},
		{model.ModePinyinToChinese, "shuǐ", "水"},
		{model.ModeChineseToPinyin, "水", "shuǐ"},
	}
	for _, tc := range cases {
		if got := Prompt(entry, tc.mode); got != tc.prompt {
			t.Fatalf("mode %s: expected prompt %q, got %q", tc.mode, tc.prompt, got)
		}
		if got := Answer(entry, tc.mode); got != tc.answer {
			t.Fatalf("mode %s: expected answer %q, got %q", tc.mode, tc.answer, got)
		}
	}
}
