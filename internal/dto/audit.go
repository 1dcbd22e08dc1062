package dto

import (
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
)

// AuditRecordResponse defines one audit record as returned to callers.
type AuditRecordResponse struct {
	AuditID   string               `json:"auditID"`
	Action    domain.AuditAction   `json:"action"`
	Severity  domain.AuditSeverity `json:"severity"`
	Actor     string               `json:"actor"`
	ClientIP  string               `json:"clientIP,omitempty"`
	Reason    string               `json:"reason,omitempty"`
	OldAmount *string              `json:"oldAmount,omitempty"`
	NewAmount *string              `json:"newAmount,omitempty"`
	OldStatus *domain.EntryStatus  `json:"oldStatus,omitempty"`
	NewStatus *domain.EntryStatus  `json:"newStatus,omitempty"`
	Changes   []domain.FieldChange `json:"changes"`
	Summary   string               `json:"summary"`
	CreatedAt time.Time            `json:"createdAt"`
}

// AuditHistoryResponse is the chronological history of one entry.
type AuditHistoryResponse struct {
	EntryID string                `json:"entryID"`
	Records []AuditRecordResponse `json:"records"`
}

// ChangesSummary is a compact, human-readable history line per record.
type ChangesSummary struct {
	AuditID   string             `json:"auditID"`
	Action    domain.AuditAction `json:"action"`
	Actor     string             `json:"actor"`
	CreatedAt time.Time          `json:"createdAt"`
	Summary   string             `json:"summary"`
}

// ToAuditRecordResponse converts a domain.AuditRecord to AuditRecordResponse DTO.
func ToAuditRecordResponse(r domain.AuditRecord) AuditRecordResponse {
	resp := AuditRecordResponse{
		AuditID:   r.AuditID,
		Action:    r.Action,
		Severity:  r.Severity,
		Actor:     r.Actor,
		ClientIP:  r.ClientIP,
		Reason:    r.Reason,
		OldStatus: r.OldStatus,
		NewStatus: r.NewStatus,
		Changes:   r.Changes(),
		Summary:   r.ChangesSummary(),
		CreatedAt: r.CreatedAt,
	}
	if r.OldAmount != nil {
		s := r.OldAmount.StringFixed(2)
		resp.OldAmount = &s
	}
	if r.NewAmount != nil {
		s := r.NewAmount.StringFixed(2)
		resp.NewAmount = &s
	}
	return resp
}

// ToAuditHistoryResponse converts an entry's records to the history DTO.
func ToAuditHistoryResponse(entryID string, records []domain.AuditRecord) AuditHistoryResponse {
	resp := AuditHistoryResponse{EntryID: entryID, Records: make([]AuditRecordResponse, len(records))}
	for i, r := range records {
		resp.Records[i] = ToAuditRecordResponse(r)
	}
	return resp
}
