package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
)

// balanceService derives balances at read time. Nothing is cached.
type balanceService struct {
	BaseService
	store portsrepo.Store
}

// NewBalanceService creates a new BalanceSvc.
func NewBalanceService(store portsrepo.Store, opts Options) portssvc.BalanceSvc {
	return &balanceService{BaseService: newBaseService(opts.Now), store: store}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// GetBalance returns the book balance of one client, case or bank account.
func (s *balanceService) GetBalance(ctx context.Context, scope domain.BalanceScope, id string) (domain.Balance, error) {
	if !scope.IsValid() {
		return domain.Balance{}, apperrors.NewValidationError("scope", "must be one of client case bank_account")
	}
	if err := s.checkExists(ctx, scope, id); err != nil {
		return domain.Balance{}, err
	}

	amount, err := s.store.SumBalance(ctx, scope, id)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum balance", slog.String("scope", string(scope)), slog.String("id", id))
		return domain.Balance{}, err
	}
	return domain.NewBalance(scope, id, amount), nil
}

// ListBalances returns balances for ids in the given order with one grouped read. Unknown ids
// report a zero balance.
func (s *balanceService) ListBalances(ctx context.Context, scope domain.BalanceScope, ids []string) ([]domain.Balance, error) {
	if !scope.IsValid() {
		return nil, apperrors.NewValidationError("scope", "must be one of client case bank_account")
	}
	if len(ids) == 0 {
		return []domain.Balance{}, nil
	}

	sums, err := s.store.SumBalances(ctx, scope, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum balances", slog.String("scope", string(scope)), slog.Int("count", len(ids)))
		return nil, err
	}

	balances := make([]domain.Balance, len(ids))
	for i, id := range ids {
		balances[i] = domain.NewBalance(scope, id, sums[id])
	}
	return balances, nil
}

func (s *balanceService) checkExists(ctx context.Context, scope domain.BalanceScope, id string) error {
	var err error
	switch scope {
	case domain.ScopeClient:
		_, err = s.store.FindClientByID(ctx, id)
	case domain.ScopeCase:
		_, err = s.store.FindCaseByID(ctx, id)
	case domain.ScopeBankAccount:
		_, err = s.store.FindBankAccountByID(ctx, id)
	}
	return err
}
