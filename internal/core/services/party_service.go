package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
)

// partyService manages clients, cases and bank accounts.
type partyService struct {
	BaseService
	store              portsrepo.Store
	afterClientCreated []func(ctx context.Context, client domain.Client) error
}

// NewPartyService creates a new PartySvc.
func NewPartyService(store portsrepo.Store, opts Options) portssvc.PartySvc {
	return &partyService{
		BaseService:        newBaseService(opts.Now),
		store:              store,
		afterClientCreated: opts.AfterClientCreated,
	}
}

var _ portssvc.PartySvc = (*partyService)(nil)

// CreateClient opens a client with the next client number. Post-creation hooks run after commit;
// a failing hook is logged and does not undo the client.
func (s *partyService) CreateClient(ctx context.Context, req dto.CreateClientRequest, actor domain.Actor) (*domain.Client, error) {
	verr := validationErrors(req)
	checkActor(verr, actor)
	if verr.HasErrors() {
		return nil, verr
	}

	now := s.Now()
	client := domain.Client{
		ClientID: uuid.NewString(),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		number, err := tx.NextSequenceValue(ctx, domain.SequenceClientNumber)
		if err != nil {
			return err
		}
		client.ClientNumber = number
		return tx.SaveClient(ctx, client)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Client created",
		slog.String("client_id", client.ClientID),
		slog.Int64("client_number", client.ClientNumber))

	for _, hook := range s.afterClientCreated {
		if err := hook(ctx, client); err != nil {
			s.LogError(ctx, err, "Client post-creation hook failed", slog.String("client_id", client.ClientID))
		}
	}
	return &client, nil
}

// GetClient retrieves a client by ID.
func (s *partyService) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	return s.store.FindClientByID(ctx, clientID)
}

// CreateCase opens a case under an existing client with the next case number.
func (s *partyService) CreateCase(ctx context.Context, clientID string, req dto.CreateCaseRequest, actor domain.Actor) (*domain.Case, error) {
	verr := validationErrors(req)
	checkActor(verr, actor)
	if verr.HasErrors() {
		return nil, verr
	}

	now := s.Now()
	c := domain.Case{
		CaseID:   uuid.NewString(),
		ClientID: clientID,
		Title:    strings.TrimSpace(req.Title),
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		if _, err := tx.FindClientByIDForUpdate(ctx, clientID); err != nil {
			return err
		}
		number, err := tx.NextSequenceValue(ctx, domain.SequenceCaseNumber)
		if err != nil {
			return err
		}
		c.CaseNumber = number
		return tx.SaveCase(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Case created",
		slog.String("case_id", c.CaseID),
		slog.String("client_id", clientID),
		slog.Int64("case_number", c.CaseNumber))
	return &c, nil
}

// GetCase retrieves a case by ID.
func (s *partyService) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	return s.store.FindCaseByID(ctx, caseID)
}

// CreateBankAccount registers a trust bank account.
func (s *partyService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, actor domain.Actor) (*domain.BankAccount, error) {
	verr := validationErrors(req)
	checkActor(verr, actor)
	if verr.HasErrors() {
		return nil, verr
	}

	now := s.Now()
	account := domain.BankAccount{
		BankAccountID:   uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		AccountNumber:   strings.TrimSpace(req.AccountNumber),
		NextCheckNumber: req.NextCheckNumber,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	if err := s.store.SaveBankAccount(ctx, account); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Bank account created", slog.String("bank_account_id", account.BankAccountID))
	return &account, nil
}

// SetNextCheckNumber edits the bank account copy of the next check number. The counter copy is
// left alone; the sequencer starts from whichever is larger.
func (s *partyService) SetNextCheckNumber(ctx context.Context, bankAccountID string, next int64, actor domain.Actor) (*domain.BankAccount, error) {
	verr := &apperrors.ValidationError{}
	if next < 1 {
		verr.Add("nextCheckNumber", "must be at least 1")
	}
	checkActor(verr, actor)
	if verr.HasErrors() {
		return nil, verr
	}

	var updated domain.BankAccount
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		account, err := tx.FindBankAccountByIDForUpdate(ctx, bankAccountID)
		if err != nil {
			return err
		}
		now := s.Now()
		if err := tx.UpdateBankAccountNextCheckNumber(ctx, bankAccountID, next, actor.UserID, now); err != nil {
			return err
		}
		updated = *account
		updated.NextCheckNumber = next
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = actor.UserID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Next check number set manually",
		slog.String("bank_account_id", bankAccountID),
		slog.Int64("next_check_number", next),
		slog.String("actor", actor.UserID))
	return &updated, nil
}
