package tui

import (
	"testing"

	"github.com/mwzhao/hskdrill/internal/model"
)

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{9, "00:09"},
		{61, "01:01"},
		{600, "10:00"},
	}
	for _, tc := range cases {
		if got := formatClock(tc.seconds); got != tc.want {
			t.Fatalf("formatClock(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestModeLabel(t *testing.T) {
	if got := modeLabel(model.ModeChineseToEnglish); got != "Chinese → English" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := modeLabel(model.Mode("custom")); got != "custom" {
		t.Fatalf("unknown mode should fall back to raw value, got %q", got)
	}
}
