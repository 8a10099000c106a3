// Package main provides the CLI entrypoint for hskdrill.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mwzhao/hskdrill/internal/catalog"
	"github.com/mwzhao/hskdrill/internal/config"
	"github.com/mwzhao/hskdrill/internal/model"
	"github.com/mwzhao/hskdrill/internal/quiz"
	"github.com/mwzhao/hskdrill/internal/stats"
	"github.com/mwzhao/hskdrill/internal/statsui"
	"github.com/mwzhao/hskdrill/internal/store"
	"github.com/mwzhao/hskdrill/internal/tui"
)

const (
	defaultLevel       = 1
	defaultMode        = "zh-en"
	defaultQuestions   = 10
	defaultTimeLimit   = 0
	defaultPinyinHints = true
	defaultTrendWindow = 5
	defaultReportWidth = 80
)

// questionMenu lists the allowed per-quiz question counts.
var questionMenu = []int{10, 20, 30, 50, 100}

var (
	quizLevel       int
	quizMode        string
	quizQuestions   int
	quizTimeLimit   int
	quizPinyinHints bool

	statsLevel int
	statsLast  int
	statsPlain bool

	vocabLevel int
	vocabForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hskdrill",
		Short:         "TUI HSK vocabulary trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runQuizCmd,
	}

	rootCmd.Flags().IntVar(&quizLevel, "level", defaultLevel, "HSK level")
	rootCmd.Flags().StringVar(&quizMode, "mode", defaultMode, "quiz mode (zh-en, en-zh, py-zh, zh-py, mixed)")
	rootCmd.Flags().IntVar(&quizQuestions, "questions", defaultQuestions, "questions per quiz (10/20/30/50/100)")
	rootCmd.Flags().IntVar(&quizTimeLimit, "time-limit", defaultTimeLimit, "time limit in seconds (0 = none)")
	rootCmd.Flags().BoolVar(&quizPinyinHints, "pinyin-hints", defaultPinyinHints, "allow revealing pinyin hints")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newVocabCmd())

	return rootCmd
}

func runQuizCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "level", &quizLevel, fileCfg.Quiz.Level)
	applyStringConfig(cmd, "mode", &quizMode, fileCfg.Quiz.Mode)
	applyIntConfig(cmd, "questions", &quizQuestions, fileCfg.Quiz.Questions)
	applyIntConfig(cmd, "time-limit", &quizTimeLimit, fileCfg.Quiz.TimeLimit)
	applyBoolConfig(cmd, "pinyin-hints", &quizPinyinHints, fileCfg.Quiz.PinyinHints)

	cfg := model.Config{
		Level:        quizLevel,
		Mode:         model.Mode(quizMode),
		Questions:    quizQuestions,
		TimeLimitSec: quizTimeLimit,
		PinyinHints:  quizPinyinHints,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	entries, err := catalog.LoadWithOverride(config.DefaultCatalogDir(), cfg.Level)
	if err != nil {
		return catalogLoadError(cfg.Level, err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	model := tui.NewModel(cfg, st, quiz.NewDealer(), entries)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List available vocabulary levels",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	catalogDir := config.DefaultCatalogDir()
	for _, level := range catalog.Levels() {
		entries, err := catalog.LoadWithOverride(catalogDir, level)
		if err != nil {
			return fmt.Errorf("failed to load level %d: %w", level, err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "HSK%d\t%d entries\n", level, len(entries)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLevel, "level", 0, "level filter (0 = all)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain report instead of the TUI")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	cfg := model.StatsConfig{Level: statsLevel, Last: statsLast}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return runPlainStats(st, cfg)
	}

	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func runPlainStats(st *store.Store, cfg model.StatsConfig) error {
	ctx := context.Background()
	aggregates, err := st.LoadStats(ctx)
	if err != nil {
		// Malformed persisted stats degrade to zeroed defaults.
		aggregates = model.Stats{PerLevel: map[int]model.LevelStats{}}
	}
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	width := defaultReportWidth
	if w, _, terr := term.GetSize(int(os.Stdout.Fd())); terr == nil && w > 0 {
		width = w
	}
	return stats.RenderReport(os.Stdout, aggregates, sessions, defaultTrendWindow, width)
}

func newVocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Export embedded vocabulary catalogs for customization",
		RunE:  runVocabCmd,
	}
	cmd.Flags().IntVar(&vocabLevel, "level", 0, "level to export (0 = all)")
	cmd.Flags().BoolVar(&vocabForce, "force", false, "overwrite existing files")
	return cmd
}

func runVocabCmd(_ *cobra.Command, _ []string) error {
	catalogDir := config.DefaultCatalogDir()
	levels := catalog.Levels()
	if vocabLevel != 0 {
		if !catalog.Has(vocabLevel) {
			return fmt.Errorf("no catalog for level %d (available: %v)", vocabLevel, levels)
		}
		levels = []int{vocabLevel}
	}
	for _, level := range levels {
		path, err := catalog.Export(catalogDir, level, vocabForce)
		if err != nil {
			return err
		}
		logErrf("Wrote %s\n", path)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# hskdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# level = %d              # HSK level
# mode = %q           # Quiz mode: zh-en, en-zh, py-zh, zh-py, mixed
# questions = %d         # Questions per quiz: 10, 20, 30, 50, or 100
# time-limit = %d         # Time limit in seconds (0 = none)
# pinyin-hints = %t    # Allow revealing pinyin hints
`,
		defaultLevel,
		defaultMode,
		defaultQuestions,
		defaultTimeLimit,
		defaultPinyinHints,
	)
}

func validateConfig(cfg model.Config) error {
	if !catalog.Has(cfg.Level) {
		return fmt.Errorf("--level must be one of %v", catalog.Levels())
	}
	if !cfg.Mode.Valid() {
		return fmt.Errorf("--mode must be one of zh-en, en-zh, py-zh, zh-py, mixed")
	}
	allowed := false
	for _, n := range questionMenu {
		if cfg.Questions == n {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("--questions must be one of %v", questionMenu)
	}
	if cfg.TimeLimitSec < 0 {
		return fmt.Errorf("--time-limit must be >= 0")
	}
	return nil
}

func catalogLoadError(level int, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load vocabulary catalog: %v", err),
		fmt.Sprintf("level %d catalogs can be customized under: %s", level, config.DefaultCatalogDir()),
		"Export the embedded catalogs with: hskdrill vocab",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
