package domain_test

import (
	"math/rand"
	"testing"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"1234.5", "1234.50"},
		{"0", "0.00"},
		{"-12", "(12.00)"},
		{"-0.01", "(0.01)"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FormatAmount(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestNewBalance_Sign(t *testing.T) {
	assert.Equal(t, domain.SignPositive, domain.NewBalance(domain.ScopeClient, "c", decimal.RequireFromString("0.01")).Sign)
	assert.Equal(t, domain.SignZero, domain.NewBalance(domain.ScopeClient, "c", decimal.Zero).Sign)

	negative := domain.NewBalance(domain.ScopeCase, "k", decimal.RequireFromString("-5.005"))
	assert.Equal(t, domain.SignNegative, negative.Sign)
	assert.Equal(t, "(5.01)", negative.Formatted())
}

func TestSumEntries_OrderIndependent(t *testing.T) {
	entries := []domain.LedgerEntry{
		{Amount: decimal.RequireFromString("1000.00"), Direction: domain.Deposit, Status: domain.Cleared},
		{Amount: decimal.RequireFromString("500.00"), Direction: domain.Deposit, Status: domain.Cleared},
		{Amount: decimal.RequireFromString("250.00"), Direction: domain.Withdrawal, Status: domain.Pending},
		{Amount: decimal.RequireFromString("999.99"), Direction: domain.Withdrawal, Status: domain.Voided},
		{Amount: decimal.RequireFromString("0.37"), Direction: domain.Interest, Status: domain.Pending},
		{Amount: decimal.RequireFromString("15.00"), Direction: domain.Fee, Status: domain.Cleared},
	}
	want := decimal.RequireFromString("1235.37")

	assert.True(t, want.Equal(domain.SumEntries(entries)))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.LedgerEntry(nil), entries...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.True(t, want.Equal(domain.SumEntries(shuffled)))
	}
}

func TestBalanceScope_IsValid(t *testing.T) {
	assert.True(t, domain.ScopeBankAccount.IsValid())
	assert.False(t, domain.BalanceScope("vendor").IsValid())
}
