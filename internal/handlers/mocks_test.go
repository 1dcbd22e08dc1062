package handlers_test

import (
	"context"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}
func (m *MockLedgerService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, actor domain.Actor) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, actor domain.Actor, reason string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID, req, actor, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerService) VoidEntry(ctx context.Context, entryID string, reason string, actor domain.Actor) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID, reason, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerService) ClearEntry(ctx context.Context, entryID string, actor domain.Actor) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock AuditService ---
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) GetAuditHistory(ctx context.Context, entryID string) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}
func (m *MockAuditService) GetChangesSummary(ctx context.Context, entryID string) ([]dto.ChangesSummary, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ChangesSummary), args.Error(1)
}

var _ portssvc.AuditSvc = (*MockAuditService)(nil)

// --- Mock CheckSequencer ---
type MockCheckSequencer struct {
	mock.Mock
}

func (m *MockCheckSequencer) AllocateCheckNumbers(ctx context.Context, bankAccountID string, count int) ([]int64, error) {
	args := m.Called(ctx, bankAccountID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockCheckSequencer) AssignCheckNumbers(ctx context.Context, bankAccountID string, entryIDs []string, actor domain.Actor) ([]dto.CheckAssignment, error) {
	args := m.Called(ctx, bankAccountID, entryIDs, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.CheckAssignment), args.Error(1)
}

var _ portssvc.CheckSequencerSvc = (*MockCheckSequencer)(nil)

// --- Mock ImportService ---
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) StartImport(ctx context.Context, bankAccountID string, rows []dto.ImportRow, creator domain.Actor) (*dto.StartImportResult, error) {
	args := m.Called(ctx, bankAccountID, rows, creator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StartImportResult), args.Error(1)
}
func (m *MockImportService) GetBatch(ctx context.Context, batchID string) (*domain.ImportBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportBatch), args.Error(1)
}
func (m *MockImportService) ApproveImport(ctx context.Context, batchID string, approver domain.Actor) (*domain.ImportCounts, error) {
	args := m.Called(ctx, batchID, approver)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportCounts), args.Error(1)
}
func (m *MockImportService) RejectImport(ctx context.Context, batchID string, approver domain.Actor, reason string) error {
	args := m.Called(ctx, batchID, approver, reason)
	return args.Error(0)
}

var _ portssvc.ImportSvc = (*MockImportService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) GetBalance(ctx context.Context, scope domain.BalanceScope, id string) (domain.Balance, error) {
	args := m.Called(ctx, scope, id)
	return args.Get(0).(domain.Balance), args.Error(1)
}
func (m *MockBalanceService) ListBalances(ctx context.Context, scope domain.BalanceScope, ids []string) ([]domain.Balance, error) {
	args := m.Called(ctx, scope, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Balance), args.Error(1)
}

var _ portssvc.BalanceSvc = (*MockBalanceService)(nil)

// --- Mock PartyService ---
type MockPartyService struct {
	mock.Mock
}

func (m *MockPartyService) CreateClient(ctx context.Context, req dto.CreateClientRequest, actor domain.Actor) (*domain.Client, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockPartyService) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockPartyService) CreateCase(ctx context.Context, clientID string, req dto.CreateCaseRequest, actor domain.Actor) (*domain.Case, error) {
	args := m.Called(ctx, clientID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}
func (m *MockPartyService) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}
func (m *MockPartyService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, actor domain.Actor) (*domain.BankAccount, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}
func (m *MockPartyService) SetNextCheckNumber(ctx context.Context, bankAccountID string, next int64, actor domain.Actor) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID, next, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

var _ portssvc.PartySvc = (*MockPartyService)(nil)
