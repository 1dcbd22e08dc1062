package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryReader defines read operations for ledger entries
type LedgerEntryReader interface {
	// FindEntryByID retrieves a ledger entry. Returns apperrors.ErrNotFound when missing.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntries returns entries matching filter ordered by transaction date then creation time,
	// newest first, and a token for the next page.
	ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerEntryWriter defines write operations for ledger entries. There is no delete.
type LedgerEntryWriter interface {
	// FindEntryByIDForUpdate reads and row-locks an entry for the rest of the transaction.
	FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// SaveEntry inserts a new entry.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) error

	// SaveEntries inserts many entries in one round trip.
	SaveEntries(ctx context.Context, entries []domain.LedgerEntry) error

	// UpdateEntry overwrites every mutable column of an existing entry.
	UpdateEntry(ctx context.Context, entry domain.LedgerEntry) error
}

// LedgerEntryRepository combines ledger entry reads and writes
type LedgerEntryRepository interface {
	LedgerEntryReader
	LedgerEntryWriter
}

// BalanceRepository aggregates balances in the store. Implementations must never iterate entries
// in process for bulk reads.
type BalanceRepository interface {
	// SumBalance derives one balance over non-voided entries.
	SumBalance(ctx context.Context, scope domain.BalanceScope, id string) (decimal.Decimal, error)

	// SumBalances derives balances for many ids with one grouped query. Ids without entries map to zero.
	SumBalances(ctx context.Context, scope domain.BalanceScope, ids []string) (map[string]decimal.Decimal, error)
}

// PartyRepository persists clients, cases, vendors and bank accounts.
type PartyRepository interface {
	SaveClient(ctx context.Context, client domain.Client) error
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	// FindClientByIDForUpdate row-locks the client; the compliance guard serialises on it.
	FindClientByIDForUpdate(ctx context.Context, clientID string) (*domain.Client, error)
	// FindClientsByNames matches on domain.NormalizeName, keyed by the normalized name.
	FindClientsByNames(ctx context.Context, names []string) (map[string]domain.Client, error)

	SaveCase(ctx context.Context, c domain.Case) error
	FindCaseByID(ctx context.Context, caseID string) (*domain.Case, error)
	FindCaseByIDForUpdate(ctx context.Context, caseID string) (*domain.Case, error)

	SaveVendor(ctx context.Context, vendor domain.Vendor) error
	FindVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error)
	// FindVendorsByNames matches on domain.NormalizeName, keyed by the normalized name.
	FindVendorsByNames(ctx context.Context, names []string) (map[string]domain.Vendor, error)

	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	FindBankAccountByIDForUpdate(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	UpdateBankAccountNextCheckNumber(ctx context.Context, bankAccountID string, next int64, userID string, at time.Time) error

	// NextSequenceValue locks the named sequence row and returns its next value.
	NextSequenceValue(ctx context.Context, name string) (int64, error)
}

// AuditRepository is append-only.
type AuditRepository interface {
	InsertAuditRecord(ctx context.Context, record domain.AuditRecord) error
	// ListAuditRecordsByEntryID returns records oldest first.
	ListAuditRecordsByEntryID(ctx context.Context, entryID string) ([]domain.AuditRecord, error)
}

// CheckSequenceRepository persists per-bank-account check counters.
type CheckSequenceRepository interface {
	// FindCounterForUpdate locks the counter row, creating it from seed when missing.
	FindCounterForUpdate(ctx context.Context, bankAccountID string, seed int64) (*domain.CheckSequenceCounter, error)
	SaveCounter(ctx context.Context, counter domain.CheckSequenceCounter) error
}

// ImportRepository persists import batches and their staging rows.
type ImportRepository interface {
	SaveBatch(ctx context.Context, batch domain.ImportBatch) error
	FindBatchByID(ctx context.Context, batchID string) (*domain.ImportBatch, error)
	FindBatchByIDForUpdate(ctx context.Context, batchID string) (*domain.ImportBatch, error)
	UpdateBatch(ctx context.Context, batch domain.ImportBatch) error

	SaveStaged(ctx context.Context, staged domain.StagedBatch) error
	FindStaged(ctx context.Context, batchID string) (*domain.StagedBatch, error)
	DeleteStaged(ctx context.Context, batchID string) error
}
