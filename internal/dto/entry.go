package dto

import (
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest defines the data needed to record a new ledger entry.
// Amount is checked by the service: validator tags do not apply to decimal.Decimal.
type CreateEntryRequest struct {
	BankAccountID   string           `json:"bankAccountID" binding:"required"`
	ClientID        *string          `json:"clientID"`
	CaseID          *string          `json:"caseID"`
	VendorID        *string          `json:"vendorID"`
	Amount          decimal.Decimal  `json:"amount"`
	Direction       domain.Direction `json:"direction" binding:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER_IN TRANSFER_OUT FEE INTEREST"`
	TransactionDate time.Time        `json:"transactionDate" binding:"required"`
	PostDate        *time.Time       `json:"postDate"`
	Payee           string           `json:"payee" binding:"required,max=255"`
	Reference       string           `json:"reference" binding:"max=64"` // Optional, the check sequencer may fill it later
	Description     string           `json:"description" binding:"required,max=1000"`
}

// UpdateEntryRequest carries the fields to change. Nil means unchanged.
type UpdateEntryRequest struct {
	ClientID        *string           `json:"clientID"`
	CaseID          *string           `json:"caseID"`
	VendorID        *string           `json:"vendorID"`
	Amount          *decimal.Decimal  `json:"amount"`
	Direction       *domain.Direction `json:"direction" binding:"omitempty,oneof=DEPOSIT WITHDRAWAL TRANSFER_IN TRANSFER_OUT FEE INTEREST"`
	TransactionDate *time.Time        `json:"transactionDate"`
	PostDate        *time.Time        `json:"postDate"`
	Payee           *string           `json:"payee" binding:"omitempty,min=1,max=255"`
	Reference       *string           `json:"reference" binding:"omitempty,max=64"`
	Description     *string           `json:"description" binding:"omitempty,min=1,max=1000"`
	Reason          string            `json:"reason" binding:"max=500"`
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateEntryRequest) IsEmpty() bool {
	return r.ClientID == nil && r.CaseID == nil && r.VendorID == nil && r.Amount == nil &&
		r.Direction == nil && r.TransactionDate == nil && r.PostDate == nil && r.Payee == nil &&
		r.Reference == nil && r.Description == nil
}

// VoidEntryRequest defines the body of a void call.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListEntriesParams defines the query parameters for listing entries.
type ListEntriesParams struct {
	BankAccountID string `form:"bankAccountID"`
	ClientID      string `form:"clientID"`
	CaseID        string `form:"caseID"`
	Status        string `form:"status" binding:"omitempty,oneof=PENDING CLEARED VOIDED"`
	Limit         int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken     string `form:"nextToken"`
}

// EntryResponse defines the data returned for a ledger entry.
type EntryResponse struct {
	EntryID         string             `json:"entryID"`
	BankAccountID   string             `json:"bankAccountID"`
	ClientID        *string            `json:"clientID,omitempty"`
	CaseID          *string            `json:"caseID,omitempty"`
	VendorID        *string            `json:"vendorID,omitempty"`
	Amount          decimal.Decimal    `json:"amount"`
	SignedAmount    string             `json:"signedAmount"` // Formatted, negatives in parentheses
	Direction       domain.Direction   `json:"direction"`
	TransactionDate time.Time          `json:"transactionDate"`
	PostDate        *time.Time         `json:"postDate,omitempty"`
	ClearedDate     *time.Time         `json:"clearedDate,omitempty"`
	Status          domain.EntryStatus `json:"status"`
	Payee           string             `json:"payee"`
	Reference       string             `json:"reference"`
	Description     string             `json:"description"`
	ImportBatchID   *string            `json:"importBatchID,omitempty"`
	VoidedAt        *time.Time         `json:"voidedAt,omitempty"`
	VoidedBy        *string            `json:"voidedBy,omitempty"`
	VoidReason      *string            `json:"voidReason,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain.LedgerEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:         e.EntryID,
		BankAccountID:   e.BankAccountID,
		ClientID:        e.ClientID,
		CaseID:          e.CaseID,
		VendorID:        e.VendorID,
		Amount:          e.Amount,
		SignedAmount:    domain.FormatAmount(e.SignedAmount()),
		Direction:       e.Direction,
		TransactionDate: e.TransactionDate,
		PostDate:        e.PostDate,
		ClearedDate:     e.ClearedDate,
		Status:          e.Status,
		Payee:           e.Payee,
		Reference:       e.Reference,
		Description:     e.Description,
		ImportBatchID:   e.ImportBatchID,
		VoidedAt:        e.VoidedAt,
		VoidedBy:        e.VoidedBy,
		VoidReason:      e.VoidReason,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
		LastUpdatedAt:   e.LastUpdatedAt,
		LastUpdatedBy:   e.LastUpdatedBy,
	}
}

// ToEntryResponses converts a slice of domain.LedgerEntry to []EntryResponse.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}
