// Package catalog loads vocabulary catalogs.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwzhao/hskdrill/internal/model"
)

//go:embed data/*.json
var embedded embed.FS

// levels lists the HSK levels with embedded catalogs, ascending.
var levels = []int{1, 3, 4}

// minDistinct is the number of distinct values each field must provide so
// that four unique options can always be built.
const minDistinct = 4

// Levels returns the available levels, ascending.
func Levels() []int {
	out := make([]int, len(levels))
	copy(out, levels)
	return out
}

// Has reports whether a catalog exists for level.
func Has(level int) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}

func dataName(level int) string {
	return fmt.Sprintf("hsk%d.json", level)
}

// Load returns the embedded catalog for level.
func Load(level int) ([]model.Entry, error) {
	if !Has(level) {
		return nil, fmt.Errorf("no catalog for level %d (available: %v)", level, levels)
	}
	data, err := embedded.ReadFile("data/" + dataName(level))
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}
	return decode(data)
}

// LoadFile reads a catalog from a JSON file.
func LoadFile(path string) ([]model.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return entries, nil
}

// LoadWithOverride returns the catalog for level, preferring a user-supplied
// file in dir over the embedded data.
func LoadWithOverride(dir string, level int) ([]model.Entry, error) {
	path := filepath.Join(dir, dataName(level))
	if _, err := os.Stat(path); err == nil {
		return LoadFile(path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat catalog: %w", err)
	}
	return Load(level)
}

// Export writes the embedded catalog for level into dir and returns the
// written path. Existing files are only replaced when force is set.
func Export(dir string, level int, force bool) (string, error) {
	if !Has(level) {
		return "", fmt.Errorf("no catalog for level %d (available: %v)", level, levels)
	}
	outPath := filepath.Join(dir, dataName(level))
	if !force {
		if _, err := os.Stat(outPath); err == nil {
			return "", fmt.Errorf("catalog already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to stat catalog: %w", err)
		}
	}
	data, err := embedded.ReadFile("data/" + dataName(level))
	if err != nil {
		return "", fmt.Errorf("failed to read embedded catalog: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create catalog dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "catalog-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create temp catalog: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return "", fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close catalog: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return "", fmt.Errorf("failed to write catalog: %w", err)
	}
	return outPath, nil
}

func decode(data []byte) ([]model.Entry, error) {
	var entries []model.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := validate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// validate enforces the option-generation precondition: every field must
// carry at least minDistinct distinct non-empty values, otherwise building
// four unique options could spin forever.
func validate(entries []model.Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	chinese := map[string]struct{}{}
	english := map[string]struct{}{}
	pinyin := map[string]struct{}{}
	for i, e := range entries {
		if e.Chinese == "" || e.English == "" || e.Pinyin == "" {
			return fmt.Errorf("catalog entry %d has an empty field: %+v", i, e)
		}
		chinese[e.Chinese] = struct{}{}
		english[e.English] = struct{}{}
		pinyin[e.Pinyin] = struct{}{}
	}
	for field, values := range map[string]map[string]struct{}{
		"chinese": chinese,
		"english": english,
		"pinyin":  pinyin,
	} {
		if len(values) < minDistinct {
			return fmt.Errorf("catalog needs at least %d distinct %s values, got %d", minDistinct, field, len(values))
		}
	}
	return nil
}
