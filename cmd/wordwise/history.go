package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/wordwise/internal/config"
	"github.com/verte-zerg/wordwise/internal/historyui"
	"github.com/verte-zerg/wordwise/internal/identity"
	"github.com/verte-zerg/wordwise/internal/model"
	"github.com/verte-zerg/wordwise/internal/results"
	"github.com/verte-zerg/wordwise/internal/stats"
)

const (
	defaultTrendWindow = 5
	trendGames         = 50
)

var (
	historyDifficulty string
	historyLast       int
	historyPlain      bool

	statsWindow int
)

func newHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past games",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	historyCmd.Flags().StringVar(&historyDifficulty, "difficulty", "", "only games played at this difficulty")
	historyCmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N games")
	historyCmd.Flags().BoolVar(&historyPlain, "plain", false, "print a table instead of the interactive view")

	historyCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored game",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	})
	return historyCmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	hcfg := model.HistoryConfig{Last: historyLast}
	if historyDifficulty != "" {
		d, err := model.ParseDifficulty(historyDifficulty)
		if err != nil {
			return fmt.Errorf("invalid --difficulty: %w", err)
		}
		hcfg.Difficulty = d
	}

	svc, user, closeFn, err := openResults(cmd)
	if err != nil {
		return err
	}
	defer closeFn()
	hcfg.UserID = user.ID

	if historyPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return stats.RenderHistory(cmd.OutOrStdout(), svc.History(context.Background(), hcfg))
	}
	program := tea.NewProgram(historyui.NewModel(svc, hcfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history UI: %w", err)
	}
	return nil
}

func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	svc, _, closeFn, err := openResults(cmd)
	if err != nil {
		return err
	}
	defer closeFn()
	if err := svc.Delete(context.Background(), id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted game %d\n", id)
	return err
}

func newStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregated results",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	statsCmd.Flags().IntVar(&statsWindow, "window", defaultTrendWindow, "moving average window for the trend line")
	return statsCmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	svc, user, closeFn, err := openResults(cmd)
	if err != nil {
		return err
	}
	defer closeFn()
	ctx := context.Background()
	agg, err := svc.Stats(ctx, user.ID)
	if err != nil {
		return err
	}
	recent := svc.History(ctx, model.HistoryConfig{UserID: user.ID, Last: trendGames})
	return stats.RenderSummary(cmd.OutOrStdout(), agg, recent, statsWindow)
}

// openResults opens the configured backend and restores the signed-in player.
func openResults(cmd *cobra.Command) (*results.Service, model.User, func(), error) {
	if _, err := loadFileConfig(cmd); err != nil {
		return nil, model.User{}, nil, err
	}
	b, err := openBackend()
	if err != nil {
		return nil, model.User{}, nil, err
	}
	user, err := identity.NewProvider(config.DefaultSessionPath(), b.users).Restore()
	if err != nil {
		b.closeQuietly()
		return nil, model.User{}, nil, err
	}
	return results.NewService(b.results), user, b.closeQuietly, nil
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}
