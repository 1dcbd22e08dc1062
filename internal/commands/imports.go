package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/importer"
)

func newImportCommand(newApp AppFactory) *cobra.Command {
	var bankAccountID string
	var userID string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Stage a CSV of trust entries for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			rows, err := importer.ParseCSV(f)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			return withApp(cmd.Context(), newApp, func(app *App) error {
				result, err := app.Services.Imports.StartImport(cmd.Context(), bankAccountID, rows, domain.Actor{UserID: userID})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "batch %s: staged %d of %d rows\n", result.BatchID, result.StagedRows, result.TotalRows)
				printRowErrors(out, result.RowErrors)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&bankAccountID, "bank-account", "", "bank account the entries belong to (required)")
	_ = cmd.MarkFlagRequired("bank-account")
	cmd.Flags().StringVar(&userID, "as", "", "user ID of the uploader (required)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func printRowErrors(out io.Writer, rowErrors []domain.RowError) {
	for _, re := range rowErrors {
		if re.Field != "" {
			fmt.Fprintf(out, "  row %d: %s: %s\n", re.Row, re.Field, re.Message)
			continue
		}
		fmt.Fprintf(out, "  row %d: %s\n", re.Row, re.Message)
	}
}

// newApproveCommand runs as a reviewer: the operator's database access already implies the
// approval capability. Dual control is still enforced against --as.
func newApproveCommand(newApp AppFactory) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "approve <batch-id>",
		Short: "Approve a staged import and promote it to the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), newApp, func(app *App) error {
				counts, err := app.Services.Imports.ApproveImport(cmd.Context(), args[0], domain.Actor{UserID: userID, CanApproveImports: true})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"batch %s committed: %d entries, %d clients created, %d clients reused, %d cases, %d vendors\n",
					args[0], counts.EntriesCreated, counts.ClientsCreated, counts.ClientsReused, counts.CasesCreated, counts.VendorsCreated)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "as", "", "user ID of the reviewer (required)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newRejectCommand(newApp AppFactory) *cobra.Command {
	var userID string
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <batch-id>",
		Short: "Reject a staged import and discard its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), newApp, func(app *App) error {
				if err := app.Services.Imports.RejectImport(cmd.Context(), args[0], domain.Actor{UserID: userID, CanApproveImports: true}, reason); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "batch %s rejected\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "as", "", "user ID of the reviewer (required)")
	_ = cmd.MarkFlagRequired("as")
	cmd.Flags().StringVar(&reason, "reason", "", "why the batch is rejected (required)")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}
