// Package main provides the CLI entrypoint for codetype.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/codetype/internal/config"
	"github.com/verte-zerg/codetype/internal/highlight"
	"github.com/verte-zerg/codetype/internal/loader"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/session"
	"github.com/verte-zerg/codetype/internal/stats"
	"github.com/verte-zerg/codetype/internal/statsui"
	"github.com/verte-zerg/codetype/internal/store"
	"github.com/verte-zerg/codetype/internal/tui"
)

const (
	defaultTheme       = "monokai"
	defaultWordSize    = 5
	defaultCurveWindow = 20

	resolveTimeout = 60 * time.Second
)

var (
	practiceLexer        string
	practiceStartLine    int
	practiceEndLine      int
	practiceTheme        string
	practiceWordSize     int
	practiceTargetWPM    int
	practiceKeepComments bool
	practiceForcePerfect bool
	practiceInstantDeath bool

	statsLanguage    string
	statsPath        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsChars       string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "codetype <path-or-url>",
		Short:         "Typing trainer that uses source code as practice text",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLexer, "lexer", "", "force a chroma lexer by name (default: detect from filename/content)")
	rootCmd.Flags().IntVar(&practiceStartLine, "start-line", 0, "first line of the excerpt (1-based, requires --end-line)")
	rootCmd.Flags().IntVar(&practiceEndLine, "end-line", 0, "last line of the excerpt (1-based, requires --start-line)")
	rootCmd.Flags().StringVar(&practiceTheme, "theme", defaultTheme, "chroma style name")
	rootCmd.Flags().IntVar(&practiceWordSize, "word-size", defaultWordSize, "characters per word for WPM")
	rootCmd.Flags().IntVar(&practiceTargetWPM, "target-wpm", 0, "target words per minute (0 disables)")
	rootCmd.Flags().BoolVar(&practiceKeepComments, "keep-comments", false, "keep comment and doc-string lines")
	rootCmd.Flags().BoolVar(&practiceForcePerfect, "force-perfect", false, "require every character correct to finish")
	rootCmd.Flags().BoolVar(&practiceInstantDeath, "instant-death", false, "end the session on the first mistake")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "theme", &practiceTheme, fileCfg.Practice.Theme)
	applyIntConfig(cmd, "word-size", &practiceWordSize, fileCfg.Practice.WordSize)
	applyIntConfig(cmd, "target-wpm", &practiceTargetWPM, fileCfg.Practice.TargetWPM)
	applyBoolConfig(cmd, "keep-comments", &practiceKeepComments, fileCfg.Practice.KeepComments)
	applyBoolConfig(cmd, "force-perfect", &practiceForcePerfect, fileCfg.Practice.ForcePerfect)
	applyBoolConfig(cmd, "instant-death", &practiceInstantDeath, fileCfg.Practice.InstantDeath)

	cfg := model.Config{
		Theme:        practiceTheme,
		WordSize:     practiceWordSize,
		TargetWPM:    practiceTargetWPM,
		KeepComments: practiceKeepComments,
		ForcePerfect: practiceForcePerfect,
		InstantDeath: practiceInstantDeath,
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	cache := loader.NewDirCache(config.DefaultContentCacheDir())
	content, filename, err := loader.Resolve(ctx, target, cache)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", target, err)
	}

	src, err := loader.Load(content, filename, loader.Options{
		Lexer:        practiceLexer,
		StartLine:    practiceStartLine,
		EndLine:      practiceEndLine,
		KeepComments: cfg.KeepComments,
	})
	if err != nil {
		return fmt.Errorf("failed to prepare %s: %w", target, err)
	}

	text, err := session.NewText(src.Lines)
	if err != nil {
		return fmt.Errorf("failed to prepare %s: %w", target, err)
	}
	styler, err := highlight.New(src.Lines, src.Lexer, cfg.Theme)
	if err != nil {
		return err
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sess := session.New(text, styler, session.Options{
		WordSize:     cfg.WordSize,
		ForcePerfect: cfg.ForcePerfect,
		InstantDeath: cfg.InstantDeath,
	})

	tuiModel := tui.NewModel(sess, st, cfg, target, src.Language)
	program := tea.NewProgram(tuiModel, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	finalModel, ok := final.(*tui.Model)
	if !ok {
		return fmt.Errorf("unexpected final model type %T", final)
	}
	if err := finalModel.Err(); err != nil {
		return err
	}
	if !finalModel.Finished() {
		return nil
	}
	report := stats.BuildSessionReport(sess, target, src.Language, cfg.TargetWPM)
	return stats.RenderSessionReport(os.Stdout, report, "=", 0)
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

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List practiced languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	langs, err := st.ListLanguages(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}
	if len(langs) == 0 {
		logErrln("No sessions recorded yet. Practice with: codetype <path-or-url>")
		return fmt.Errorf("no sessions found")
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
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
	cmd.Flags().StringVar(&statsLanguage, "language", "", "language filter")
	cmd.Flags().StringVar(&statsPath, "path", "", "path substring filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsChars, "char", "", "characters for per-char curves")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Language:    statsLanguage,
		Path:        statsPath,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Chars:       statsChars,
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

	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
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
	return fmt.Sprintf(`# codetype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# theme = %q          # Chroma style name
# word-size = %d             # Characters per word for WPM
# target-wpm = 0           # Target words per minute (0 disables)
# keep-comments = false    # Keep comment and doc-string lines
# force-perfect = false    # Require every character correct to finish
# instant-death = false    # End the session on the first mistake
`,
		defaultTheme,
		defaultWordSize,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Theme == "" {
		return fmt.Errorf("--theme must not be empty")
	}
	if cfg.WordSize <= 0 {
		return fmt.Errorf("--word-size must be > 0")
	}
	if cfg.TargetWPM < 0 {
		return fmt.Errorf("--target-wpm must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
