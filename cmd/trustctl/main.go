package main

import (
	"context"
	"os"

	"github.com/SscSPs/trust_ledger_app/internal/commands"
)

func main() {
	rootCmd := commands.NewRootCommand(commands.NewPostgresApp)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
