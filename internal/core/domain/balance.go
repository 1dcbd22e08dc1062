package domain

import (
	"github.com/shopspring/decimal"
)

// BalanceScope selects which entity a balance is aggregated for.
type BalanceScope string

const (
	ScopeClient      BalanceScope = "client"
	ScopeCase        BalanceScope = "case"
	ScopeBankAccount BalanceScope = "bank_account"
)

// IsValid reports whether s is a known scope.
func (s BalanceScope) IsValid() bool {
	return s == ScopeClient || s == ScopeCase || s == ScopeBankAccount
}

// BalanceSign tags a balance for presentation.
type BalanceSign string

const (
	SignPositive BalanceSign = "POSITIVE"
	SignZero     BalanceSign = "ZERO"
	SignNegative BalanceSign = "NEGATIVE"
)

// Balance is a derived book balance: credits minus debits over non-voided entries.
// Pending entries count. Balances are never stored.
type Balance struct {
	Scope  BalanceScope    `json:"scope"`
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Sign   BalanceSign     `json:"sign"`
}

// NewBalance builds a Balance rounded to cents with its sign tag.
func NewBalance(scope BalanceScope, id string, amount decimal.Decimal) Balance {
	amount = amount.Round(2)
	return Balance{Scope: scope, ID: id, Amount: amount, Sign: SignOf(amount)}
}

// SignOf classifies an amount.
func SignOf(amount decimal.Decimal) BalanceSign {
	switch amount.Sign() {
	case 1:
		return SignPositive
	case -1:
		return SignNegative
	default:
		return SignZero
	}
}

// Formatted renders the balance with two decimals, negatives in parentheses.
func (b Balance) Formatted() string {
	return FormatAmount(b.Amount)
}

// FormatAmount renders 1234.5 as "1234.50" and -12 as "(12.00)".
func FormatAmount(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "(" + amount.Abs().StringFixed(2) + ")"
	}
	return amount.StringFixed(2)
}

// SumEntries derives a balance from entries in memory. Voided entries are skipped.
// Order of entries does not matter.
func SumEntries(entries []LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Contribution())
	}
	return total
}
