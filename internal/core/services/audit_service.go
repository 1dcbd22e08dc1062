package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
)

// auditRecorder appends audit records inside the caller's transaction. It has no transaction of
// its own: a failed write must abort the mutation it describes.
type auditRecorder struct {
	BaseService
}

func newAuditRecorder(base BaseService) *auditRecorder {
	return &auditRecorder{BaseService: base}
}

// Record writes rec through tx. Any store failure comes back as an *apperrors.AuditWriteError.
func (r *auditRecorder) Record(ctx context.Context, tx portsrepo.AuditRepository, rec domain.AuditRecord) error {
	if rec.AuditID == "" {
		rec.AuditID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.Now()
	}
	if rec.Severity == "" {
		rec.Severity = domain.SeverityNormal
	}
	if err := tx.InsertAuditRecord(ctx, rec); err != nil {
		r.LogError(ctx, err, "Audit write failed, aborting operation",
			slog.String("entry_id", rec.EntryID),
			slog.String("action", string(rec.Action)))
		return &apperrors.AuditWriteError{EntryID: rec.EntryID, Action: string(rec.Action), Err: err}
	}
	if rec.Severity == domain.SeverityHigh {
		r.LogWarn(ctx, "High severity audit record written",
			slog.String("entry_id", rec.EntryID),
			slog.String("action", string(rec.Action)),
			slog.String("actor", rec.Actor),
			slog.String("reason", rec.Reason))
	}
	return nil
}

// auditService exposes the read side of the audit trail.
type auditService struct {
	BaseService
	store portsrepo.Store
}

// NewAuditService creates a new AuditSvc.
func NewAuditService(store portsrepo.Store, opts Options) portssvc.AuditSvc {
	return &auditService{BaseService: newBaseService(opts.Now), store: store}
}

var _ portssvc.AuditSvc = (*auditService)(nil)

// GetAuditHistory returns the entry's audit records, oldest first.
func (s *auditService) GetAuditHistory(ctx context.Context, entryID string) ([]domain.AuditRecord, error) {
	if _, err := s.store.FindEntryByID(ctx, entryID); err != nil {
		return nil, err
	}
	records, err := s.store.ListAuditRecordsByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit records", slog.String("entry_id", entryID))
		return nil, err
	}
	return records, nil
}

// GetChangesSummary renders the entry's history as one readable line per record.
func (s *auditService) GetChangesSummary(ctx context.Context, entryID string) ([]dto.ChangesSummary, error) {
	records, err := s.GetAuditHistory(ctx, entryID)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.ChangesSummary, len(records))
	for i, r := range records {
		summaries[i] = dto.ChangesSummary{
			AuditID:   r.AuditID,
			Action:    r.Action,
			Actor:     r.Actor,
			CreatedAt: r.CreatedAt,
			Summary:   r.ChangesSummary(),
		}
	}
	return summaries, nil
}
