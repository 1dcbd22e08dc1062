package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/core/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
	"github.com/SscSPs/trust_ledger_app/internal/notify"
	"github.com/SscSPs/trust_ledger_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var (
	clerk    = domain.Actor{UserID: "user-clerk", ClientIP: "10.0.0.1"}
	reviewer = domain.Actor{UserID: "user-reviewer", ClientIP: "10.0.0.2", CanApproveImports: true}
)

// recordingNotifier keeps every notification it receives.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, msg notify.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) Sent() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Notification(nil), n.sent...)
}

// ledgerFixture wires the service container over a fresh in-memory store.
type ledgerFixture struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	notifier *recordingNotifier
	svc      *portssvc.ServiceContainer
	now      time.Time

	bank   *domain.BankAccount
	client *domain.Client
	kase   *domain.Case
}

func (suite *ledgerFixture) SetupTest() {
	suite.setup()
}

func (suite *ledgerFixture) setup(storeOpts ...memory.Option) {
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	suite.store = memory.NewStore(storeOpts...)
	suite.notifier = &recordingNotifier{}
	suite.svc = services.NewServiceContainer(suite.store, services.Options{
		MaxCheckAllocation: 50,
		Notifier:           suite.notifier,
		Now:                func() time.Time { return suite.now },
	})

	var err error
	suite.bank, err = suite.svc.Parties.CreateBankAccount(suite.ctx, dto.CreateBankAccountRequest{
		Name:            "IOLTA Operating Trust",
		AccountNumber:   "000123456",
		NextCheckNumber: 1001,
	}, clerk)
	suite.Require().NoError(err)

	suite.client, suite.kase = suite.newClientWithCase("Jane Roe", "Roe v. Acme")
}

func (suite *ledgerFixture) newClientWithCase(name, title string) (*domain.Client, *domain.Case) {
	client, err := suite.svc.Parties.CreateClient(suite.ctx, dto.CreateClientRequest{Name: name}, clerk)
	suite.Require().NoError(err)
	c, err := suite.svc.Parties.CreateCase(suite.ctx, client.ClientID, dto.CreateCaseRequest{Title: title}, clerk)
	suite.Require().NoError(err)
	return client, c
}

func (suite *ledgerFixture) entryRequest(direction domain.Direction, amount string) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		BankAccountID:   suite.bank.BankAccountID,
		ClientID:        &suite.client.ClientID,
		CaseID:          &suite.kase.CaseID,
		Amount:          decimal.RequireFromString(amount),
		Direction:       direction,
		TransactionDate: suite.now,
		Payee:           "Jane Roe",
		Description:     string(direction) + " " + amount,
	}
}

func (suite *ledgerFixture) create(direction domain.Direction, amount string) *domain.LedgerEntry {
	entry, err := suite.svc.Ledger.CreateEntry(suite.ctx, suite.entryRequest(direction, amount), clerk)
	suite.Require().NoError(err)
	return entry
}

func (suite *ledgerFixture) balance(scope domain.BalanceScope, id string) string {
	b, err := suite.svc.Balance.GetBalance(suite.ctx, scope, id)
	suite.Require().NoError(err)
	return b.Amount.StringFixed(2)
}

func (suite *ledgerFixture) history(entryID string) []domain.AuditRecord {
	records, err := suite.svc.Audit.GetAuditHistory(suite.ctx, entryID)
	suite.Require().NoError(err)
	return records
}
