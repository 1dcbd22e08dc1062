package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newChecksCommand(newApp AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checks",
		Short: "Check number sequencing",
	}
	cmd.AddCommand(newChecksAllocateCommand(newApp))
	return cmd
}

func newChecksAllocateCommand(newApp AppFactory) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "allocate <bank-account-id>",
		Short: "Allocate contiguous check numbers for a print run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), newApp, func(app *App) error {
				numbers, err := app.Services.Checks.AllocateCheckNumbers(cmd.Context(), args[0], count)
				if err != nil {
					return err
				}
				parts := make([]string, len(numbers))
				for i, n := range numbers {
					parts[i] = strconv.FormatInt(n, 10)
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "how many numbers to allocate")

	return cmd
}
