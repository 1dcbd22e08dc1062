package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
)

// sequencerActor is recorded as the last updater of a bank account whose next check number was
// advanced by an allocation.
const sequencerActor = "check-sequencer"

const checkAssignedReason = "check number assigned"

// checkSequencer hands out gapless check numbers per bank account.
//
// The bank account row and its counter row are locked for the whole transaction. The bank
// account copy may have been raised by hand, so the larger of the two copies is where the next
// allocation starts, and both copies are advanced together.
type checkSequencer struct {
	BaseService
	store    portsrepo.Store
	audit    *auditRecorder
	maxCount int
}

// NewCheckSequencer creates a new CheckSequencerSvc.
func NewCheckSequencer(store portsrepo.Store, opts Options) portssvc.CheckSequencerSvc {
	opts = opts.withDefaults()
	base := newBaseService(opts.Now)
	return &checkSequencer{
		BaseService: base,
		store:       store,
		audit:       newAuditRecorder(base),
		maxCount:    opts.MaxCheckAllocation,
	}
}

var _ portssvc.CheckSequencerSvc = (*checkSequencer)(nil)

// AllocateCheckNumbers reserves count contiguous numbers. Lock contention returns a
// *apperrors.SequencerBusyError; the caller retries the whole allocation.
func (s *checkSequencer) AllocateCheckNumbers(ctx context.Context, bankAccountID string, count int) ([]int64, error) {
	if err := s.checkCount(count); err != nil {
		return nil, err
	}

	var numbers []int64
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		var err error
		numbers, err = s.allocate(ctx, tx, bankAccountID, count)
		return err
	})
	if err != nil {
		return nil, s.busy(ctx, bankAccountID, err)
	}

	s.LogInfo(ctx, "Check numbers allocated",
		slog.String("bank_account_id", bankAccountID),
		slog.Int64("first", numbers[0]),
		slog.Int64("last", numbers[len(numbers)-1]))
	return numbers, nil
}

// AssignCheckNumbers allocates one number per entry, in the order given, and writes it into the
// entry's reference. Every entry must be a PENDING debit of the bank account without a reference.
func (s *checkSequencer) AssignCheckNumbers(ctx context.Context, bankAccountID string, entryIDs []string, actor domain.Actor) ([]dto.CheckAssignment, error) {
	verr := &apperrors.ValidationError{}
	checkActor(verr, actor)
	if len(entryIDs) == 0 {
		verr.Add("entryIDs", "is required")
	}
	seen := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		if seen[id] {
			verr.Add("entryIDs", "contains duplicate entry "+id)
		}
		seen[id] = true
	}
	if verr.HasErrors() {
		return nil, verr
	}
	if err := s.checkCount(len(entryIDs)); err != nil {
		return nil, err
	}

	var assignments []dto.CheckAssignment
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		entries := make([]*domain.LedgerEntry, len(entryIDs))
		for i, id := range entryIDs {
			entry, err := tx.FindEntryByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if err := checkAssignable(*entry, bankAccountID); err != nil {
				return err
			}
			entries[i] = entry
		}

		numbers, err := s.allocate(ctx, tx, bankAccountID, len(entries))
		if err != nil {
			return err
		}

		now := s.Now()
		assignments = make([]dto.CheckAssignment, len(entries))
		for i, current := range entries {
			next := *current
			next.Reference = strconv.FormatInt(numbers[i], 10)
			next.LastUpdatedAt = now
			next.LastUpdatedBy = actor.UserID
			if err := tx.UpdateEntry(ctx, next); err != nil {
				return err
			}
			rec := domain.NewAuditRecord(domain.AuditUpdate, current, next, actor, checkAssignedReason, now)
			if err := s.audit.Record(ctx, tx, rec); err != nil {
				return err
			}
			assignments[i] = dto.CheckAssignment{EntryID: next.EntryID, CheckNumber: numbers[i]}
		}
		return nil
	})
	if err != nil {
		return nil, s.busy(ctx, bankAccountID, err)
	}

	s.LogInfo(ctx, "Check numbers assigned",
		slog.String("bank_account_id", bankAccountID),
		slog.Int("count", len(assignments)))
	return assignments, nil
}

func (s *checkSequencer) allocate(ctx context.Context, tx portsrepo.TxStore, bankAccountID string, count int) ([]int64, error) {
	account, err := tx.FindBankAccountByIDForUpdate(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	counter, err := tx.FindCounterForUpdate(ctx, bankAccountID, account.NextCheckNumber)
	if err != nil {
		return nil, err
	}

	start := domain.ReconcileNextCheckNumber(*counter, *account)
	if start != counter.NextCheckNumber {
		s.LogDebug(ctx, "Honouring bank account check number",
			slog.String("bank_account_id", bankAccountID),
			slog.Int64("counter", counter.NextCheckNumber),
			slog.Int64("bank_account", account.NextCheckNumber))
	}

	now := s.Now()
	counter.Advance(account, start, count, now)
	if err := tx.SaveCounter(ctx, *counter); err != nil {
		return nil, err
	}
	if err := tx.UpdateBankAccountNextCheckNumber(ctx, bankAccountID, account.NextCheckNumber, sequencerActor, now); err != nil {
		return nil, err
	}
	return domain.CheckRange(start, count), nil
}

func (s *checkSequencer) checkCount(count int) error {
	if count < 1 {
		return apperrors.NewValidationError("count", "must be at least 1")
	}
	if count > s.maxCount {
		return apperrors.NewValidationError("count", "must be at most "+strconv.Itoa(s.maxCount))
	}
	return nil
}

// busy converts lock timeouts into a SequencerBusyError and passes other errors through.
func (s *checkSequencer) busy(ctx context.Context, bankAccountID string, err error) error {
	if !errors.Is(err, apperrors.ErrLockTimeout) {
		return err
	}
	s.LogWarn(ctx, "Check sequencer busy", slog.String("bank_account_id", bankAccountID))
	return &apperrors.SequencerBusyError{BankAccountID: bankAccountID, Err: err}
}

func checkAssignable(e domain.LedgerEntry, bankAccountID string) error {
	switch {
	case e.BankAccountID != bankAccountID:
		return apperrors.NewValidationError("entryIDs", fmt.Sprintf("entry %s belongs to another bank account", e.EntryID))
	case !e.Direction.IsDebit():
		return apperrors.NewValidationError("entryIDs", fmt.Sprintf("entry %s is not a withdrawal", e.EntryID))
	case e.Reference != "":
		return apperrors.NewValidationError("entryIDs", fmt.Sprintf("entry %s already has reference %s", e.EntryID, e.Reference))
	case e.Status != domain.Pending:
		return fmt.Errorf("%w: %s entry %s cannot receive a check number", apperrors.ErrInvalidTransition, e.Status, e.EntryID)
	}
	return nil
}
