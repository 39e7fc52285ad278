package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/stlref/stlref"
	"github.com/stlref/stlref/internal/config"
	"github.com/stlref/stlref/observer"
	"github.com/stlref/stlref/store/postgres"
	"github.com/stlref/stlref/store/sqlite"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the embedded catalog into the configured database",
	Long: `Replaces every stored topic with the embedded catalog contents.
The store is never edited entry-by-entry; sync is the only write path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		c, err := loadCatalog()
		if err != nil {
			return err
		}

		st, cleanup, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup(ctx)

		if err := st.Init(ctx); err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		for _, t := range c.Topics() {
			if err := st.PutTopic(ctx, t); err != nil {
				return fmt.Errorf("sync topic %s: %w", t.Slug, err)
			}
			fmt.Printf("synced %s (%d entries)\n", t.Slug, len(t.Entries))
		}
		return nil
	},
}

// openStore opens the configured store backend. The returned cleanup closes
// the store and flushes the observer when one is enabled.
func openStore(ctx context.Context, cfg config.Config) (stlref.Store, func(context.Context), error) {
	var st stlref.Store
	closeStore := func() {}

	switch cfg.Database.Driver {
	case "sqlite":
		st = sqlite.New(cfg.Database.Path, sqlite.WithLogger(cliLogger()))
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		st = postgres.New(pool)
		closeStore = pool.Close
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	shutdown := func(ctx context.Context) {
		_ = st.Close()
		closeStore()
	}

	if cfg.Observer.Enabled {
		inst, obsShutdown, err := observer.Init(ctx)
		if err != nil {
			_ = st.Close()
			closeStore()
			return nil, nil, fmt.Errorf("init observer: %w", err)
		}
		st = observer.WrapStore(st, inst)
		inner := shutdown
		shutdown = func(ctx context.Context) {
			inner(ctx)
			_ = obsShutdown(ctx)
		}
	}

	return st, shutdown, nil
}

// cliLogger logs to stderr at info level, or debug with --verbose.
func cliLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
