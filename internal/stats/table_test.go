package stats

import (
	"strings"
	"testing"
)

func TestFormatTableAlignment(t *testing.T) {
	lines := formatTable(
		[]string{"Word", "Count"},
		[][]string{
			{"water", "10"},
			{"go", "3"},
		},
		map[int]bool{1: true},
	)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "water    10" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if lines[2] != "go        3" {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}

func TestFormatTableCJKWidth(t *testing.T) {
	lines := formatTable(
		[]string{"Word", "Gloss"},
		[][]string{
			{"水", "water"},
			{"谢谢", "thanks"},
		},
		nil,
	)
	// 谢谢 occupies four cells, so the gloss column starts at the same cell
	// on both rows.
	if !strings.Contains(lines[1], "水   water") {
		t.Fatalf("unexpected CJK padding: %q", lines[1])
	}
	if !strings.Contains(lines[2], "谢谢 thanks") {
		t.Fatalf("unexpected CJK padding: %q", lines[2])
	}
}
