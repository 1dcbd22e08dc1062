package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SscSPs/trust_ledger_app/internal/core/services"
	"github.com/SscSPs/trust_ledger_app/internal/notify"
	"github.com/SscSPs/trust_ledger_app/internal/platform/config"
	"github.com/SscSPs/trust_ledger_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/trust_ledger_app/pkg/database"
)

// NewPostgresApp is the production AppFactory: it connects to PGSQL_URL and the notification
// backend with the server's config.
func NewPostgresApp(ctx context.Context) (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger()

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	notifier, closeNotifier, err := notify.FromConfig(ctx, cfg, logger)
	if err != nil {
		database.ClosePgxPool(pool, logger)
		return nil, fmt.Errorf("connecting to notification backend: %w", err)
	}

	store := pgsql.NewStore(pool, cfg.LockTimeout)
	return &App{
		Services: services.NewServiceContainer(store, services.Options{
			MaxCheckAllocation: cfg.MaxCheckAllocation,
			Notifier:           notifier,
		}),
		Close: func() {
			closeNotifier()
			database.ClosePgxPool(pool, logger)
		},
	}, nil
}

// newLogger writes to stderr so that command output on stdout stays clean.
func newLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)
	return logger
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, newLogger()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations up to date")
			return nil
		},
	}
}
