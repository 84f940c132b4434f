// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command catalogctl is the operator CLI of the catalogue: slug tooling and
// schema migrations against the database named by DATABASE_URL.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/taibuivan/tunreplay/internal/platform/config"
	pgstore "github.com/taibuivan/tunreplay/internal/platform/postgres"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Operate the catalogue database",
		Long: `catalogctl inspects and allocates catalogue slugs and manages the
database schema. Commands that touch the database read DATABASE_URL and the
other API settings from the environment.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newSlugCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	return root
}

func (opts *options) logger() *slog.Logger {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// connect loads the configuration and opens a pool. The caller closes it.
func (opts *options) connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, opts.logger())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return cfg, pool, nil
}
