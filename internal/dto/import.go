package dto

import (
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
)

// ImportRow is one untrusted input row. Values stay textual so that a bad row can be reported
// without rejecting the batch.
type ImportRow struct {
	Row             int    `json:"row"`
	ClientName      string `json:"clientName"`
	ClientEmail     string `json:"clientEmail"`
	CaseTitle       string `json:"caseTitle"`
	TransactionDate string `json:"transactionDate"` // YYYY-MM-DD
	Direction       string `json:"direction"`
	Amount          string `json:"amount"`
	Payee           string `json:"payee"`
	Reference       string `json:"reference"`
	Description     string `json:"description"`
}

// StartImportRequest is the JSON form of an import upload.
type StartImportRequest struct {
	BankAccountID string      `json:"bankAccountID" binding:"required"`
	Rows          []ImportRow `json:"rows" binding:"required,min=1"`
}

// StartImportResult reports how much of the upload was staged.
type StartImportResult struct {
	BatchID    string            `json:"batchID"`
	TotalRows  int               `json:"totalRows"`
	StagedRows int               `json:"stagedRows"`
	RowErrors  []domain.RowError `json:"rowErrors,omitempty"`
}

// RejectImportRequest defines the body of a reject call.
type RejectImportRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ImportBatchResponse defines the data returned for an import batch.
type ImportBatchResponse struct {
	BatchID         string                `json:"batchID"`
	BankAccountID   string                `json:"bankAccountID"`
	Status          domain.ApprovalStatus `json:"status"`
	CreatedBy       string                `json:"createdBy"`
	CreatedAt       time.Time             `json:"createdAt"`
	ReviewedBy      *string               `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time            `json:"reviewedAt,omitempty"`
	RejectionReason *string               `json:"rejectionReason,omitempty"`
	TotalRows       int                   `json:"totalRows"`
	StagedRows      int                   `json:"stagedRows"`
	RowErrors       []domain.RowError     `json:"rowErrors,omitempty"`
	Counts          *domain.ImportCounts  `json:"counts,omitempty"`
}

// ToImportBatchResponse converts a domain.ImportBatch to ImportBatchResponse DTO.
func ToImportBatchResponse(b *domain.ImportBatch) ImportBatchResponse {
	return ImportBatchResponse{
		BatchID:         b.BatchID,
		BankAccountID:   b.BankAccountID,
		Status:          b.Status,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		ReviewedBy:      b.ReviewedBy,
		ReviewedAt:      b.ReviewedAt,
		RejectionReason: b.RejectionReason,
		TotalRows:       b.TotalRows,
		StagedRows:      b.StagedRows,
		RowErrors:       b.RowErrors,
		Counts:          b.Counts,
	}
}
