package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a row of ledger_entries. Nullable columns are pointers.
type LedgerEntry struct {
	EntryID         string          `db:"entry_id"`
	BankAccountID   string          `db:"bank_account_id"`
	ClientID        *string         `db:"client_id"`
	CaseID          *string         `db:"case_id"`
	VendorID        *string         `db:"vendor_id"`
	Amount          decimal.Decimal `db:"amount"`
	Direction       string          `db:"direction"`
	TransactionDate time.Time       `db:"transaction_date"`
	PostDate        *time.Time      `db:"post_date"`
	ClearedDate     *time.Time      `db:"cleared_date"`
	Status          string          `db:"status"`
	Payee           string          `db:"payee"`
	Reference       string          `db:"reference"`
	Description     string          `db:"description"`
	ImportBatchID   *string         `db:"import_batch_id"`
	VoidedAt        *time.Time      `db:"voided_at"`
	VoidedBy        *string         `db:"voided_by"`
	VoidReason      *string         `db:"void_reason"`
	AuditFields
}
