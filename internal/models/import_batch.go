package models

import "time"

// RowError is the JSONB shape of one entry in import_batches.row_errors.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportCounts is the JSONB shape of import_batches.counts.
type ImportCounts struct {
	ClientsCreated int `json:"clientsCreated"`
	ClientsReused  int `json:"clientsReused"`
	CasesCreated   int `json:"casesCreated"`
	VendorsCreated int `json:"vendorsCreated"`
	EntriesCreated int `json:"entriesCreated"`
}

// ImportBatch is a row of import_batches.
type ImportBatch struct {
	BatchID         string        `db:"batch_id"`
	BankAccountID   string        `db:"bank_account_id"`
	Status          string        `db:"status"`
	CreatedBy       string        `db:"created_by"`
	CreatedAt       time.Time     `db:"created_at"`
	ReviewedBy      *string       `db:"reviewed_by"`
	ReviewedAt      *time.Time    `db:"reviewed_at"`
	RejectionReason *string       `db:"rejection_reason"`
	TotalRows       int           `db:"total_rows"`
	StagedRows      int           `db:"staged_rows"`
	RowErrors       []RowError    `db:"row_errors"`
	Counts          *ImportCounts `db:"counts"`
}
