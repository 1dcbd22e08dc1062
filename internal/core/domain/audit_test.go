package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuditRecord_Update(t *testing.T) {
	before := domain.LedgerEntry{
		EntryID:         "entry-1",
		BankAccountID:   "bank-1",
		Amount:          decimal.RequireFromString("20.00"),
		Direction:       domain.Deposit,
		TransactionDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Status:          domain.Pending,
		Payee:           "Jane Roe",
		Description:     "",
	}
	after := before
	after.Amount = decimal.RequireFromString("25.00")
	after.Description = "corrected"
	actor := domain.Actor{UserID: "user-1", ClientIP: "10.0.0.1"}
	at := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

	rec := domain.NewAuditRecord(domain.AuditUpdate, &before, after, actor, "typo", at)

	assert.Equal(t, "entry-1", rec.EntryID)
	assert.Equal(t, domain.SeverityNormal, rec.Severity)
	assert.Equal(t, "user-1", rec.Actor)
	assert.Equal(t, "10.0.0.1", rec.ClientIP)
	require.NotNil(t, rec.OldAmount)
	assert.Equal(t, "20.00", rec.OldAmount.StringFixed(2))
	assert.Equal(t, "25.00", rec.NewAmount.StringFixed(2))
	assert.Equal(t, domain.Pending, *rec.OldStatus)

	changes := rec.Changes()
	require.Len(t, changes, 2)
	assert.Equal(t, domain.FieldChange{Field: domain.FieldAmount, Old: "20.00", New: "25.00"}, changes[0])
	assert.Equal(t, "amount: 20.00 -> 25.00; description: (empty) -> corrected", rec.ChangesSummary())
}

func TestNewAuditRecord_Create(t *testing.T) {
	entry := domain.LedgerEntry{
		EntryID:         "entry-2",
		BankAccountID:   "bank-1",
		Amount:          decimal.RequireFromString("5.00"),
		Direction:       domain.Deposit,
		TransactionDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Status:          domain.Pending,
	}

	rec := domain.NewAuditRecord(domain.AuditCreate, nil, entry, domain.Actor{UserID: "user-1"}, "", time.Now())

	assert.Nil(t, rec.OldAmount)
	assert.Nil(t, rec.OldStatus)
	assert.Nil(t, rec.OldValues)
	assert.Contains(t, rec.ChangesSummary(), "amount: 5.00")
	assert.Contains(t, rec.ChangesSummary(), "status: PENDING")
}

func TestAuditRecord_ChangesSummaryNoChanges(t *testing.T) {
	rec := domain.AuditRecord{
		Action:    domain.AuditUpdate,
		OldValues: map[string]string{"payee": "x"},
		NewValues: map[string]string{"payee": "x"},
	}
	assert.Equal(t, "no field changes", rec.ChangesSummary())
}
