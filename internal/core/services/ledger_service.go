package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
)

const defaultListLimit = 20

// ledgerService implements the ledger entry state machine.
type ledgerService struct {
	BaseService
	store portsrepo.Store
	guard *complianceGuard
	audit *auditRecorder
}

// NewLedgerService creates a new LedgerSvcFacade.
func NewLedgerService(store portsrepo.Store, opts Options) portssvc.LedgerSvcFacade {
	base := newBaseService(opts.Now)
	return &ledgerService{
		BaseService: base,
		store:       store,
		guard:       newComplianceGuard(base),
		audit:       newAuditRecorder(base),
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateEntry validates req, runs the compliance guard for debits and stores a PENDING entry
// together with its CREATE audit record.
func (s *ledgerService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, actor domain.Actor) (*domain.LedgerEntry, error) {
	verr := validationErrors(req)
	checkAmount(verr, "amount", req.Amount)
	checkOwners(verr, req.Direction, req.ClientID, req.CaseID)
	checkActor(verr, actor)
	if verr.HasErrors() {
		return nil, verr
	}

	now := s.Now()
	entry := domain.LedgerEntry{
		EntryID:         uuid.NewString(),
		BankAccountID:   req.BankAccountID,
		ClientID:        nonEmpty(req.ClientID),
		CaseID:          nonEmpty(req.CaseID),
		VendorID:        nonEmpty(req.VendorID),
		Amount:          req.Amount.Round(2),
		Direction:       req.Direction,
		TransactionDate: dateOnly(req.TransactionDate),
		PostDate:        datePtr(req.PostDate),
		Status:          domain.Pending,
		Payee:           strings.TrimSpace(req.Payee),
		Reference:       strings.TrimSpace(req.Reference),
		Description:     strings.TrimSpace(req.Description),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		if err := checkBankAccount(ctx, tx, entry.BankAccountID); err != nil {
			return err
		}
		if err := s.guard.Check(ctx, tx, entry, nil); err != nil {
			return err
		}
		if err := tx.SaveEntry(ctx, entry); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, domain.NewAuditRecord(domain.AuditCreate, nil, entry, actor, "", now))
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("direction", string(entry.Direction)),
		slog.String("amount", entry.Amount.StringFixed(2)))
	return &entry, nil
}

// UpdateEntry applies req to a stored entry. Once an entry is CLEARED or VOIDED only its
// description may change. Edits to a PENDING entry that touch money or ownership are re-checked
// by the compliance guard.
func (s *ledgerService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, actor domain.Actor, reason string) (*domain.LedgerEntry, error) {
	verr := validationErrors(req)
	if req.Amount != nil {
		checkAmount(verr, "amount", *req.Amount)
	}
	checkActor(verr, actor)
	if req.IsEmpty() {
		verr.Add("request", "no fields to update")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	var updated domain.LedgerEntry
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		current, err := tx.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}

		next := applyUpdate(*current, req)
		changed := current.ChangedFields(next)
		if len(changed) == 0 {
			return apperrors.NewValidationError("request", "update does not change the entry")
		}

		if current.Status.IsFrozen() {
			if frozen := withoutField(changed, domain.FieldDescription); len(frozen) > 0 {
				s.LogWarn(ctx, "Rejected edit of frozen entry",
					slog.String("entry_id", entryID),
					slog.String("status", string(current.Status)),
					slog.String("fields", strings.Join(frozen, ",")))
				return &apperrors.FrozenEntryError{EntryID: entryID, Status: string(current.Status), Fields: frozen}
			}
		} else {
			verr := &apperrors.ValidationError{}
			checkOwners(verr, next.Direction, next.ClientID, next.CaseID)
			if verr.HasErrors() {
				return verr
			}
			if touchesMoney(changed) {
				if err := s.guard.Check(ctx, tx, next, current); err != nil {
					return err
				}
			} else if _, err := resolveOwners(ctx, tx, next, false); err != nil {
				return err
			}
		}

		now := s.Now()
		next.LastUpdatedAt = now
		next.LastUpdatedBy = actor.UserID
		if err := tx.UpdateEntry(ctx, next); err != nil {
			return err
		}
		updated = next
		return s.audit.Record(ctx, tx, domain.NewAuditRecord(domain.AuditUpdate, current, next, actor, reason, now))
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry updated", slog.String("entry_id", entryID))
	return &updated, nil
}

// VoidEntry moves a PENDING or CLEARED entry to VOIDED. Voiding a CLEARED entry is allowed but
// recorded with high severity.
func (s *ledgerService) VoidEntry(ctx context.Context, entryID string, reason string, actor domain.Actor) (*domain.LedgerEntry, error) {
	verr := &apperrors.ValidationError{}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		verr.Add("reason", "is required")
	}
	checkActor(verr, actor)
	if verr.HasErrors() {
		return nil, verr
	}

	var voided domain.LedgerEntry
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		current, err := tx.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if current.Status == domain.Voided {
			return &apperrors.AlreadyVoidedError{EntryID: entryID, VoidedBy: derefOr(current.VoidedBy, "unknown")}
		}
		if !current.Status.CanTransitionTo(domain.Voided) {
			return fmt.Errorf("%w: %s entry %s cannot be voided", apperrors.ErrInvalidTransition, current.Status, entryID)
		}

		now := s.Now()
		next := *current
		next.Status = domain.Voided
		next.VoidedAt = &now
		next.VoidedBy = &actor.UserID
		next.VoidReason = &reason
		next.LastUpdatedAt = now
		next.LastUpdatedBy = actor.UserID

		rec := domain.NewAuditRecord(domain.AuditVoid, current, next, actor, reason, now)
		if current.Status == domain.Cleared {
			rec.Severity = domain.SeverityHigh
			s.LogWarn(ctx, "Voiding a cleared ledger entry",
				slog.String("entry_id", entryID),
				slog.String("actor", actor.UserID),
				slog.String("reason", reason))
		}
		if current.Direction.IsCredit() {
			negative, err := s.leavesNegative(ctx, tx, *current)
			if err != nil {
				return err
			}
			if negative {
				rec.Severity = domain.SeverityHigh
				s.LogWarn(ctx, "Void leaves a client or case balance negative", slog.String("entry_id", entryID))
			}
		}

		if err := tx.UpdateEntry(ctx, next); err != nil {
			return err
		}
		voided = next
		return s.audit.Record(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry voided", slog.String("entry_id", entryID))
	return &voided, nil
}

// leavesNegative reports whether removing a credit entry's contribution would take its client or
// case below zero.
func (s *ledgerService) leavesNegative(ctx context.Context, tx portsrepo.BalanceRepository, entry domain.LedgerEntry) (bool, error) {
	scopes := []struct {
		scope domain.BalanceScope
		id    *string
	}{
		{domain.ScopeClient, entry.ClientID},
		{domain.ScopeCase, entry.CaseID},
	}
	for _, sc := range scopes {
		if sc.id == nil {
			continue
		}
		balance, err := tx.SumBalance(ctx, sc.scope, *sc.id)
		if err != nil {
			return false, err
		}
		if balance.Sub(entry.Contribution()).IsNegative() {
			return true, nil
		}
	}
	return false, nil
}

// ClearEntry moves a PENDING entry to CLEARED and stamps the cleared date.
func (s *ledgerService) ClearEntry(ctx context.Context, entryID string, actor domain.Actor) (*domain.LedgerEntry, error) {
	verr := &apperrors.ValidationError{}
	checkActor(verr, actor)
	if verr.HasErrors() {
		return nil, verr
	}

	var cleared domain.LedgerEntry
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		current, err := tx.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(domain.Cleared) {
			return fmt.Errorf("%w: %s entry %s cannot be cleared", apperrors.ErrInvalidTransition, current.Status, entryID)
		}

		now := s.Now()
		clearedDate := dateOnly(now)
		next := *current
		next.Status = domain.Cleared
		next.ClearedDate = &clearedDate
		next.LastUpdatedAt = now
		next.LastUpdatedBy = actor.UserID

		if err := tx.UpdateEntry(ctx, next); err != nil {
			return err
		}
		cleared = next
		return s.audit.Record(ctx, tx, domain.NewAuditRecord(domain.AuditClear, current, next, actor, "", now))
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry cleared", slog.String("entry_id", entryID))
	return &cleared, nil
}

// GetEntry retrieves a single entry.
func (s *ledgerService) GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	return s.store.FindEntryByID(ctx, entryID)
}

// ListEntries retrieves a page of entries, newest transaction date first.
func (s *ledgerService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if params.Limit <= 0 {
		params.Limit = defaultListLimit
	}
	if verr := validationErrors(params); verr.HasErrors() {
		return nil, verr
	}

	filter := domain.EntryFilter{
		BankAccountID: params.BankAccountID,
		ClientID:      params.ClientID,
		CaseID:        params.CaseID,
		Status:        domain.EntryStatus(params.Status),
	}
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}

	entries, next, err := s.store.ListEntries(ctx, filter, params.Limit, token)
	if err != nil {
		return nil, err
	}
	return &dto.ListEntriesResponse{Entries: dto.ToEntryResponses(entries), NextToken: next}, nil
}

func checkBankAccount(ctx context.Context, tx portsrepo.PartyRepository, bankAccountID string) error {
	account, err := tx.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		if isNotFound(err) {
			return apperrors.NewValidationError("bankAccountID", "unknown bank account "+bankAccountID)
		}
		return err
	}
	if !account.IsActive {
		return apperrors.NewValidationError("bankAccountID", "bank account "+bankAccountID+" is inactive")
	}
	return nil
}

// applyUpdate returns a copy of e with the requested fields replaced.
func applyUpdate(e domain.LedgerEntry, req dto.UpdateEntryRequest) domain.LedgerEntry {
	if req.ClientID != nil {
		e.ClientID = nonEmpty(req.ClientID)
	}
	if req.CaseID != nil {
		e.CaseID = nonEmpty(req.CaseID)
	}
	if req.VendorID != nil {
		e.VendorID = nonEmpty(req.VendorID)
	}
	if req.Amount != nil {
		e.Amount = req.Amount.Round(2)
	}
	if req.Direction != nil {
		e.Direction = *req.Direction
	}
	if req.TransactionDate != nil {
		e.TransactionDate = dateOnly(*req.TransactionDate)
	}
	if req.PostDate != nil {
		e.PostDate = datePtr(req.PostDate)
	}
	if req.Payee != nil {
		e.Payee = strings.TrimSpace(*req.Payee)
	}
	if req.Reference != nil {
		e.Reference = strings.TrimSpace(*req.Reference)
	}
	if req.Description != nil {
		e.Description = strings.TrimSpace(*req.Description)
	}
	return e
}

func touchesMoney(changed []string) bool {
	for _, f := range changed {
		switch f {
		case domain.FieldAmount, domain.FieldDirection, domain.FieldClientID, domain.FieldCaseID:
			return true
		}
	}
	return false
}

func withoutField(fields []string, drop string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != drop {
			out = append(out, f)
		}
	}
	return out
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
