package commands

import (
	"context"

	"github.com/spf13/cobra"

	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
)

// App is what a command needs to run: the services and a way to release their resources.
type App struct {
	Services *portssvc.ServiceContainer
	Close    func()
}

// AppFactory builds the App lazily, so that commands that do not touch the ledger never connect.
type AppFactory func(ctx context.Context) (*App, error)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(newApp AppFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trustctl",
		Short: "Operator tooling for the trust ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(),
		newTokenCommand(),
		newImportCommand(newApp),
		newApproveCommand(newApp),
		newRejectCommand(newApp),
		newChecksCommand(newApp),
	)

	return rootCmd
}

// withApp builds the App, runs fn and releases the App.
func withApp(ctx context.Context, newApp AppFactory, fn func(app *App) error) error {
	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	if app.Close != nil {
		defer app.Close()
	}
	return fn(app)
}
