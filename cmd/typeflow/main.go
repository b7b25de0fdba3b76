// Package main provides the CLI entrypoint for typeflow.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/typeflow/internal/config"
	"github.com/verte-zerg/typeflow/internal/generator"
	"github.com/verte-zerg/typeflow/internal/model"
	"github.com/verte-zerg/typeflow/internal/observability"
	"github.com/verte-zerg/typeflow/internal/replay"
	"github.com/verte-zerg/typeflow/internal/runner"
	"github.com/verte-zerg/typeflow/internal/stats"
	"github.com/verte-zerg/typeflow/internal/tui"
	"github.com/verte-zerg/typeflow/internal/typing"
	"github.com/verte-zerg/typeflow/internal/wordlist"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "json"
)

var (
	flagDuration  time.Duration
	flagWordsFile string
	flagSeed      int64
	flagLogLevel  string
	flagLogFile   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typeflow",
		Short:         "Timed typing sessions in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.DurationVar(&flagDuration, "duration", model.DefaultDuration, "session length")
	flags.StringVar(&flagWordsFile, "words-file", "", "word list file, one word per line (default: built-in)")
	flags.Int64Var(&flagSeed, "seed", 0, "seed for the word stream (default: time based)")
	flags.StringVar(&flagLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&flagLogFile, "log-file", "", "log file path (default: no logging)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newReplayCmd())

	return rootCmd
}

// resolveConfig merges defaults, the config file and flags, in that order.
func resolveConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.PlayConfig, model.LogConfig) {
	settings := model.DefaultSettings()
	fileCfg.Session.ApplySettings(&settings)

	if cmd.Flags().Changed("duration") {
		settings.Duration = flagDuration
	}

	wordsFile := flagWordsFile
	applyStringConfig(cmd, "words-file", &wordsFile, fileCfg.Session.WordsFile)

	logCfg := model.LogConfig{Level: flagLogLevel, File: flagLogFile, Format: defaultLogFormat}
	applyStringConfig(cmd, "log-level", &logCfg.Level, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logCfg.File, fileCfg.Log.File)
	if fileCfg.Log.Format != nil {
		logCfg.Format = *fileCfg.Log.Format
	}

	playCfg := model.PlayConfig{
		Settings:  settings,
		WordsFile: wordsFile,
		Seed:      flagSeed,
	}
	return playCfg, logCfg
}

func loadConfig(cmd *cobra.Command) (model.PlayConfig, model.LogConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.PlayConfig{}, model.LogConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	playCfg, logCfg := resolveConfig(cmd, fileCfg)
	if err := playCfg.Settings.Validate(); err != nil {
		return model.PlayConfig{}, model.LogConfig{}, err
	}
	return playCfg, logCfg, nil
}

func newSession(cmd *cobra.Command, cfg model.PlayConfig) (*typing.Session, error) {
	words, err := wordlist.Resolve(cfg.WordsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list: %w", err)
	}
	var gen *generator.Generator
	if cmd.Flags().Changed("seed") {
		gen, err = generator.NewWithSeed(words, cfg.Seed)
	} else {
		gen, err = generator.New(words)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build word stream: %w", err)
	}
	return typing.NewSession(cfg.Settings, gen)
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	playCfg, logCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := observability.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer syncLogger(logger)

	session, err := newSession(cmd, playCfg)
	if err != nil {
		return err
	}
	logger.Info("starting",
		zap.Duration("duration", playCfg.Settings.Duration),
		zap.String("words_file", playCfg.WordsFile))

	r := runner.New(session, runner.WithLogger(logger))
	sub := r.Subscribe()
	defer sub.Close()

	ui := tui.NewModel(r, tui.Feed{
		Initial:     r.Snapshot(),
		Updates:     sub.Updates(),
		Completions: sub.Completions(),
	}, logger)
	program := tea.NewProgram(ui, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := r.Run(gctx)
		program.Quit()
		return err
	})
	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		return nil
	})
	return g.Wait()
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

func newWordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "words",
		Short: "Print the active vocabulary",
		Args:  cobra.NoArgs,
		RunE:  runWordsCmd,
	}
}

func runWordsCmd(cmd *cobra.Command, _ []string) error {
	playCfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	words, err := wordlist.Resolve(playCfg.WordsFile)
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, w := range words {
		if _, err := fmt.Fprintln(out, w); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <script>",
		Short: "Play a keystroke script and print the result",
		Long: `Play a keystroke script through a session on a synthetic clock.

Each line holds an offset from the first key and a key, for example:

  0s      n
  180ms   e
  1.2s    space
  1.4s    backspace

Use --seed to get the same word stream on every run.`,
		Args: cobra.ExactArgs(1),
		RunE: runReplayCmd,
	}
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	playCfg, logCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := observability.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer syncLogger(logger)

	steps, err := replay.Load(args[0])
	if err != nil {
		return err
	}
	session, err := newSession(cmd, playCfg)
	if err != nil {
		return err
	}
	res := replay.Play(session, steps, time.Now())
	logger.Info("replay finished",
		zap.String("script", args[0]),
		zap.String("session_id", res.SessionID),
		zap.Int("steps", len(steps)),
		zap.Int("wpm", res.Metrics.WPM))
	if res.StartedAt.IsZero() {
		logErrln("script never started the session: the first counted key must be a letter")
	}
	return stats.RenderResult(cmd.OutOrStdout(), res, 0, false)
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typeflow configuration
# Uncomment a value to enable it. CLI flags override config values.

[session]
# duration = %q          # Session length
# buffer = %d                # Words generated up front
# lookahead = %d             # Minimum words kept ahead of the cursor
# batch = %d                 # Words added when the lookahead runs low
# tick = %q              # Clock resolution
# streak-threshold = %d      # Correct words in a row before the streak mood
# words-file = ""            # Word list, one word per line (default: built-in)

[log]
# level = %q             # debug, info, warn, error
# file = %q
# format = %q            # json or console
`,
		model.DefaultDuration.String(),
		model.DefaultBufferSize,
		model.DefaultMinLookahead,
		model.DefaultBatchSize,
		model.DefaultTickInterval.String(),
		model.DefaultStreakThreshold,
		defaultLogLevel,
		config.DefaultLogPath(),
		defaultLogFormat,
	)
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		logErrf("failed to flush log: %v\n", err)
	}
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
