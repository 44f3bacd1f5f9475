package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordwise/internal/config"
	"github.com/verte-zerg/wordwise/internal/identity"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <name>",
		Short: "Sign in as a player",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoginCmd,
	}
}

func runLoginCmd(cmd *cobra.Command, args []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.closeQuietly()

	user, err := identity.NewProvider(config.DefaultSessionPath(), b.users).Login(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Name, user.ID)
	return err
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := identity.NewProvider(config.DefaultSessionPath(), nil).Logout(); err != nil {
				return fmt.Errorf("failed to log out: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in player",
		Args:  cobra.NoArgs,
		RunE:  runWhoamiCmd,
	}
}

func runWhoamiCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.closeQuietly()

	user, err := identity.NewProvider(config.DefaultSessionPath(), b.users).Verify(context.Background())
	if errors.Is(err, identity.ErrNotLoggedIn) {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
		return err
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Name, user.ID)
	return err
}
