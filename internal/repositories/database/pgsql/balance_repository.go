package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// signedAmount mirrors domain.Direction.IsDebit.
const signedAmount = `CASE WHEN direction IN ('WITHDRAWAL', 'TRANSFER_OUT', 'FEE') THEN -amount ELSE amount END`

func scopeColumn(scope domain.BalanceScope) (string, error) {
	switch scope {
	case domain.ScopeClient:
		return "client_id", nil
	case domain.ScopeCase:
		return "case_id", nil
	case domain.ScopeBankAccount:
		return "bank_account_id", nil
	}
	return "", apperrors.NewValidationError("scope", fmt.Sprintf("unknown balance scope %q", scope))
}

// SumBalance derives the balance of one client, case or bank account from its non-voided entries.
func (r *BaseRepository) SumBalance(ctx context.Context, scope domain.BalanceScope, id string) (decimal.Decimal, error) {
	column, err := scopeColumn(scope)
	if err != nil {
		return decimal.Zero, err
	}
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(%s), 0)
		FROM ledger_entries
		WHERE status <> 'VOIDED' AND %s = $1;
	`, signedAmount, column)

	var total decimal.Decimal
	if err := r.DB.QueryRow(ctx, query, id).Scan(&total); err != nil {
		return decimal.Zero, mapError(err, fmt.Sprintf("sum %s balance %s", scope, id))
	}
	return total, nil
}

// SumBalances derives many balances with one grouped query.
func (r *BaseRepository) SumBalances(ctx context.Context, scope domain.BalanceScope, ids []string) (map[string]decimal.Decimal, error) {
	column, err := scopeColumn(scope)
	if err != nil {
		return nil, err
	}
	balances := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		balances[id] = decimal.Zero
	}
	if len(ids) == 0 {
		return balances, nil
	}

	query := fmt.Sprintf(`
		SELECT %[2]s, SUM(%[1]s)
		FROM ledger_entries
		WHERE status <> 'VOIDED' AND %[2]s = ANY($1)
		GROUP BY %[2]s;
	`, signedAmount, column)

	rows, err := r.DB.Query(ctx, query, ids)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("sum %s balances", scope))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    string
			total decimal.Decimal
		)
		if err := rows.Scan(&id, &total); err != nil {
			return nil, mapError(err, "scan balance row")
		}
		balances[id] = total
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate balance rows")
	}
	return balances, nil
}
