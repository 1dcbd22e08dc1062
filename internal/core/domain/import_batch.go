package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalStatus is the review state of an import batch.
type ApprovalStatus string

const (
	PendingReview ApprovalStatus = "PENDING_REVIEW"
	Committed     ApprovalStatus = "COMMITTED"
	Rejected      ApprovalStatus = "REJECTED"
)

// IsResolved reports whether the batch has left review.
func (s ApprovalStatus) IsResolved() bool {
	return s != PendingReview
}

// RowError records why one input row could not be staged.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportCounts summarises what an approval promoted to production.
type ImportCounts struct {
	ClientsCreated int `json:"clientsCreated"`
	ClientsReused  int `json:"clientsReused"`
	CasesCreated   int `json:"casesCreated"`
	VendorsCreated int `json:"vendorsCreated"`
	EntriesCreated int `json:"entriesCreated"`
}

// ImportBatch is one bulk import attempt. Staged rows exist only while it is PENDING_REVIEW.
type ImportBatch struct {
	BatchID         string         `json:"batchID"`
	BankAccountID   string         `json:"bankAccountID"`
	Status          ApprovalStatus `json:"status"`
	CreatedBy       string         `json:"createdBy"`
	CreatedAt       time.Time      `json:"createdAt"`
	ReviewedBy      *string        `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewedAt,omitempty"`
	RejectionReason *string        `json:"rejectionReason,omitempty"`
	TotalRows       int            `json:"totalRows"`
	StagedRows      int            `json:"stagedRows"`
	RowErrors       []RowError     `json:"rowErrors,omitempty"`
	Counts          *ImportCounts  `json:"counts,omitempty"`
}

// StagingClient is a client awaiting approval.
type StagingClient struct {
	StagingClientID string `json:"stagingClientID"`
	ImportBatchID   string `json:"importBatchID"`
	Name            string `json:"name"`
	Email           string `json:"email"`
}

// StagingCase is a case awaiting approval, owned by a staging client.
type StagingCase struct {
	StagingCaseID   string `json:"stagingCaseID"`
	ImportBatchID   string `json:"importBatchID"`
	StagingClientID string `json:"stagingClientID"`
	Title           string `json:"title"`
}

// StagingLedgerEntry is a ledger entry awaiting approval. Client and case refer to staging ids.
type StagingLedgerEntry struct {
	StagingEntryID  string          `json:"stagingEntryID"`
	ImportBatchID   string          `json:"importBatchID"`
	RowNumber       int             `json:"rowNumber"`
	StagingClientID *string         `json:"stagingClientID,omitempty"`
	StagingCaseID   *string         `json:"stagingCaseID,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Direction       Direction       `json:"direction"`
	TransactionDate time.Time       `json:"transactionDate"`
	Payee           string          `json:"payee"`
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
}

// StagedBatch is everything staged under one batch.
type StagedBatch struct {
	Clients []StagingClient
	Cases   []StagingCase
	Entries []StagingLedgerEntry
}
