package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordwise/internal/api"
	"github.com/verte-zerg/wordwise/internal/config"
	"github.com/verte-zerg/wordwise/internal/store"
)

const defaultServeAddr = ":8080"

var (
	serveAddr    string
	serveOrigins []string
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve questions and results over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", defaultServeAddr, "listen address")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "cors-origin", nil, "allowed CORS origin (repeatable)")
	return serveCmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logErrf("failed to load .env: %v\n", err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyStringConfig(cmd, "addr", &serveAddr, envValue("WORDWISE_ADDR"))
	applyStringConfig(cmd, "db", &dbPath, envValue("WORDWISE_DB"))
	if !cmd.Flags().Changed("cors-origin") {
		if origins := envValue("WORDWISE_CORS_ORIGINS"); origins != nil {
			serveOrigins = splitList(*origins)
		}
	}

	path := dbPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := api.NewRouter(st, api.ServerOptions{CORSOrigins: serveOrigins})
	logErrf("wordwise listening on %s (db %s)\n", serveAddr, path)
	if err := api.Serve(ctx, serveAddr, router); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	logErrln("wordwise stopped")
	return nil
}

// envValue returns nil when name is unset or blank.
func envValue(name string) *string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return nil
	}
	return &value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
