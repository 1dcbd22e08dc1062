package commands

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/middleware"
	"github.com/SscSPs/trust_ledger_app/internal/platform/config"
)

func newTokenCommand() *cobra.Command {
	var userID string
	var canApprove bool
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API token signed with JWT_SECRET (development only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cfg.IsProduction {
				return fmt.Errorf("refusing to mint tokens in production")
			}

			now := time.Now()
			token, err := middleware.SignActorToken(cfg.JWTSecret, cfg.JWTIssuer,
				domain.Actor{UserID: userID, CanApproveImports: canApprove},
				jwt.RegisteredClaims{
					ID:        uuid.NewString(),
					IssuedAt:  jwt.NewNumericDate(now),
					ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
				})
			if err != nil {
				return fmt.Errorf("signing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "as", "", "user ID the token identifies (required)")
	_ = cmd.MarkFlagRequired("as")
	cmd.Flags().BoolVar(&canApprove, "can-approve", false, "grant the import approval capability")
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "token lifetime")

	return cmd
}
