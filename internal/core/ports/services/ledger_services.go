package services

import (
	"context"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
)

// LedgerEntryReaderSvc defines read operations for ledger entries
type LedgerEntryReaderSvc interface {
	// GetEntry retrieves a single ledger entry.
	GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntries retrieves a page of entries.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// LedgerEntryWriterSvc defines the state-machine operations on ledger entries. Each one writes
// exactly one audit record in the same transaction.
type LedgerEntryWriterSvc interface {
	// CreateEntry records a PENDING entry. Debits run through the compliance guard.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, actor domain.Actor) (*domain.LedgerEntry, error)

	// UpdateEntry edits fields. Only the description may change once an entry is CLEARED or VOIDED.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, actor domain.Actor, reason string) (*domain.LedgerEntry, error)

	// VoidEntry moves an entry to VOIDED. Voiding twice fails with AlreadyVoidedError.
	VoidEntry(ctx context.Context, entryID string, reason string, actor domain.Actor) (*domain.LedgerEntry, error)

	// ClearEntry moves a PENDING entry to CLEARED.
	ClearEntry(ctx context.Context, entryID string, actor domain.Actor) (*domain.LedgerEntry, error)
}

// LedgerSvcFacade combines all ledger entry operations
type LedgerSvcFacade interface {
	LedgerEntryReaderSvc
	LedgerEntryWriterSvc
}

// BalanceSvc derives balances at read time.
type BalanceSvc interface {
	GetBalance(ctx context.Context, scope domain.BalanceScope, id string) (domain.Balance, error)
	// ListBalances returns balances in the order of ids.
	ListBalances(ctx context.Context, scope domain.BalanceScope, ids []string) ([]domain.Balance, error)
}

// AuditSvc reads the audit trail and appends to it within a caller's transaction.
type AuditSvc interface {
	GetAuditHistory(ctx context.Context, entryID string) ([]domain.AuditRecord, error)
	GetChangesSummary(ctx context.Context, entryID string) ([]dto.ChangesSummary, error)
}

// CheckSequencerSvc allocates gapless check numbers.
type CheckSequencerSvc interface {
	AllocateCheckNumbers(ctx context.Context, bankAccountID string, count int) ([]int64, error)
	// AssignCheckNumbers allocates one number per entry and writes it into the entry's reference.
	AssignCheckNumbers(ctx context.Context, bankAccountID string, entryIDs []string, actor domain.Actor) ([]dto.CheckAssignment, error)
}

// ImportSvc runs the staging and approval pipeline.
type ImportSvc interface {
	// StartImport stages rows under a new PENDING_REVIEW batch. Bad rows are reported, not raised.
	StartImport(ctx context.Context, bankAccountID string, rows []dto.ImportRow, creator domain.Actor) (*dto.StartImportResult, error)
	GetBatch(ctx context.Context, batchID string) (*domain.ImportBatch, error)
	ApproveImport(ctx context.Context, batchID string, approver domain.Actor) (*domain.ImportCounts, error)
	RejectImport(ctx context.Context, batchID string, approver domain.Actor, reason string) error
}

// PartySvc manages the parties entries refer to.
type PartySvc interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest, actor domain.Actor) (*domain.Client, error)
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)
	CreateCase(ctx context.Context, clientID string, req dto.CreateCaseRequest, actor domain.Actor) (*domain.Case, error)
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, actor domain.Actor) (*domain.BankAccount, error)
	// SetNextCheckNumber is the manual correction path the check sequencer reconciles with.
	SetNextCheckNumber(ctx context.Context, bankAccountID string, next int64, actor domain.Actor) (*domain.BankAccount, error)
}
