// Package main provides the CLI entrypoint for wordwise.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/wordwise/internal/bank"
	"github.com/verte-zerg/wordwise/internal/config"
	"github.com/verte-zerg/wordwise/internal/generator"
	"github.com/verte-zerg/wordwise/internal/identity"
	"github.com/verte-zerg/wordwise/internal/model"
	"github.com/verte-zerg/wordwise/internal/quiz"
	"github.com/verte-zerg/wordwise/internal/results"
	"github.com/verte-zerg/wordwise/internal/tui"
)

const (
	defaultDifficulty = string(model.DifficultyAll)
	defaultTickMs     = 1000
)

var (
	remoteURL string
	dbPath    string

	playDifficulty  string
	playQuestions   int
	playTimeLimit   int
	playRevealDelay int
	playTickMs      int
	playBank        string
	playPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordwise",
		Short:         "Timed vocabulary quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "wordwise server URL (default: local database)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path")

	rootCmd.Flags().StringVar(&playDifficulty, "difficulty", defaultDifficulty, "difficulty filter (all, easy, medium, hard)")
	rootCmd.Flags().IntVar(&playQuestions, "questions", model.DefaultQuestionCount, "questions per game")
	rootCmd.Flags().IntVar(&playTimeLimit, "time-limit", model.DefaultTimeLimit, "seconds per question")
	rootCmd.Flags().IntVar(&playRevealDelay, "reveal-delay", model.DefaultRevealDelay, "seconds the answer stays revealed")
	rootCmd.Flags().IntVar(&playTickMs, "tick-ms", defaultTickMs, "milliseconds per timer tick")
	rootCmd.Flags().StringVar(&playBank, "bank", "", "YAML or JSON question bank to play instead of the database")
	rootCmd.Flags().BoolVar(&playPlain, "plain", false, "line-based mode without the full-screen UI")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newQuestionsCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "difficulty", &playDifficulty, fileCfg.Game.Difficulty)
	applyIntConfig(cmd, "questions", &playQuestions, fileCfg.Game.Questions)
	applyIntConfig(cmd, "time-limit", &playTimeLimit, fileCfg.Game.TimeLimit)
	applyIntConfig(cmd, "reveal-delay", &playRevealDelay, fileCfg.Game.RevealDelay)
	applyIntConfig(cmd, "tick-ms", &playTickMs, fileCfg.Game.TickMs)
	applyStringConfig(cmd, "bank", &playBank, fileCfg.Game.Bank)

	difficulty, err := model.ParseDifficulty(playDifficulty)
	if err != nil {
		return fmt.Errorf("invalid --difficulty: %w", err)
	}
	cfg := model.SessionConfig{
		Difficulty:    difficulty,
		QuestionCount: playQuestions,
		TimeLimit:     playTimeLimit,
		RevealDelay:   playRevealDelay,
	}
	if err := validateSessionConfig(cfg, playTickMs); err != nil {
		return err
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.closeQuietly()

	user, err := identity.NewProvider(config.DefaultSessionPath(), b.users).Restore()
	if err != nil {
		return err
	}

	source, total, err := questionSource(b, playBank)
	if err != nil {
		return err
	}
	svc := results.NewService(b.results)
	ctx := context.Background()
	lifetime := svc.Lifetime(ctx, user.ID)
	unit := time.Duration(playTickMs) * time.Millisecond

	if playPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		session := quiz.NewSession(lifetime, generator.New())
		pool := source.Questions(sigCtx, cfg.Difficulty)
		_, err := runPlain(sigCtx, os.Stdin, cmd.OutOrStdout(), session, pool, cfg, quiz.DriverOptions{
			Unit:   unit,
			Saver:  svc,
			UserID: user.ID,
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	m := tui.NewModel(tui.Options{
		Source:        source,
		Saver:         svc,
		UserID:        user.ID,
		Config:        cfg,
		TickUnit:      unit,
		Lifetime:      lifetime,
		QuestionTotal: total,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// questionSource returns the pool the game draws from and its total size.
func questionSource(b *backend, bankPath string) (bank.Source, int, error) {
	if bankPath != "" {
		questions, err := bank.LoadFile(bankPath)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load question bank: %w", err)
		}
		return bank.Static(questions), len(questions), nil
	}
	builtin := bank.Static(bank.Builtin())
	total, err := b.questions.CountQuestions(context.Background())
	if err != nil {
		logErrf("failed to count questions: %v\n", err)
	}
	if total == 0 {
		total = len(builtin)
	}
	return bank.Fallback{
		Primary:   bank.Repo{Repository: b.questions},
		Secondary: builtin,
	}, total, nil
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

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "remote", &remoteURL, fileCfg.Remote.URL)
	return fileCfg, nil
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordwise configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# difficulty = %q        # all, easy, medium or hard
# questions = %d            # Questions per game
# time-limit = %d          # Seconds per question
# reveal-delay = %d         # Seconds the answer stays revealed
# tick-ms = %d           # Milliseconds per timer tick
# bank = "~/words.yaml"    # Play a YAML/JSON bank instead of the database

[remote]
# url = "http://localhost:8080"   # Use a wordwise server instead of the local database

[server]
# addr = ":8080"           # Listen address for wordwise serve
`,
		defaultDifficulty,
		model.DefaultQuestionCount,
		model.DefaultTimeLimit,
		model.DefaultRevealDelay,
		defaultTickMs,
	)
}

func validateSessionConfig(cfg model.SessionConfig, tickMs int) error {
	if cfg.QuestionCount <= 0 {
		return fmt.Errorf("--questions must be > 0")
	}
	if cfg.TimeLimit <= 0 {
		return fmt.Errorf("--time-limit must be > 0")
	}
	if cfg.RevealDelay <= 0 {
		return fmt.Errorf("--reveal-delay must be > 0")
	}
	if tickMs <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
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
