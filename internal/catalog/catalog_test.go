package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mwzhao/hskdrill/internal/model"
)

func TestLoadEmbeddedLevels(t *testing.T) {
	for _, level := range Levels() {
		entries, err := Load(level)
		if err != nil {
			t.Fatalf("load level %d: %v", level, err)
		}
		if len(entries) < minDistinct {
			t.Fatalf("level %d: expected at least %d entries, got %d", level, minDistinct, len(entries))
		}
	}
}

func TestLoadUnknownLevel(t *testing.T) {
	if _, err := Load(2); err == nil {
		t.Fatalf("expected error for level without a catalog")
	}
}

func TestValidateRejectsSparseFields(t *testing.T) {
	entries := []model.Entry{
		{Chinese: "一", English: "one", Pinyin: "yī"},
		{Chinese: "二", English: "two", Pinyin: "èr"},
		{Chinese: "三", English: "three", Pinyin: "sān"},
	}
	if err := validate(entries); err == nil {
		t.Fatalf("expected validation failure for fewer than %d distinct values", minDistinct)
	}
}

func TestValidateRejectsEmptyField(t *testing.T) {
	entries := []model.Entry{
		{Chinese: "一", English: "one", Pinyin: "yī"},
		{Chinese: "二", English: "", Pinyin: "èr"},
		{Chinese: "三", English: "three", Pinyin: "sān"},
		{Chinese: "四", English: "four", Pinyin: "sì"},
	}
	if err := validate(entries); err == nil {
		t.Fatalf("expected validation failure for empty field")
	}
}

func TestLoadWithOverride(t *testing.T) {
	dir := t.TempDir()
	override := `[
		{"chinese": "一", "english": "one", "pinyin": "yī"},
		{"chinese": "二", "english": "two", "pinyin": "èr"},
		{"chinese": "三", "english": "three", "pinyin": "sān"},
		{"chinese": "四", "english": "four", "pinyin": "sì"}
	]`
	if err := os.WriteFile(filepath.Join(dir, "hsk1.json"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	entries, err := LoadWithOverride(dir, 1)
	if err != nil {
		t.Fatalf("load with override: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected override catalog with 4 entries, got %d", len(entries))
	}

	// Without a file the embedded catalog is used.
	entries, err = LoadWithOverride(t.TempDir(), 1)
	if err != nil {
		t.Fatalf("load embedded fallback: %v", err)
	}
	if len(entries) == 4 {
		t.Fatalf("expected embedded catalog, got override-sized catalog")
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	path, err := Export(dir, 1, false)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := Export(dir, 1, false); err == nil {
		t.Fatalf("expected error exporting over existing file without force")
	}
	if _, err := Export(dir, 1, true); err != nil {
		t.Fatalf("export with force: %v", err)
	}
	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load exported catalog: %v", err)
	}
	if len(entries) < minDistinct {
		t.Fatalf("exported catalog too small: %d entries", len(entries))
	}
}
