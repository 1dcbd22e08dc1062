package services_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
	"github.com/SscSPs/trust_ledger_app/internal/notify"
	"github.com/stretchr/testify/suite"
)

type ImportServiceTestSuite struct {
	ledgerFixture
	existing *domain.Client
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}

func (suite *ImportServiceTestSuite) SetupTest() {
	suite.ledgerFixture.SetupTest()
	suite.existing, _ = suite.newClientWithCase("Acme Holdings", "General Retainer")
}

// scenarioRows lists two clients (one new, one matching "Acme Holdings") and three entries. The
// withdrawal comes first in the file but is dated after the deposit that funds it.
func scenarioRows() []dto.ImportRow {
	return []dto.ImportRow{
		{Row: 1, ClientName: "Mary Major", ClientEmail: "mary@example.com", CaseTitle: "Major Estate", TransactionDate: "2024-05-03", Direction: "withdrawal", Amount: "300.00", Payee: "County Probate Court", Description: "Filing fees"},
		{Row: 2, ClientName: "Mary Major", CaseTitle: "Major Estate", TransactionDate: "2024-05-02", Direction: "DEPOSIT", Amount: "1000.00", Payee: "Mary Major", Description: "Retainer"},
		{Row: 3, ClientName: "  acme   HOLDINGS ", CaseTitle: "Acme Merger", TransactionDate: "2024-05-01", Direction: "DEPOSIT", Amount: "2500.50", Payee: "Acme Holdings", Description: "Escrow"},
	}
}

func (suite *ImportServiceTestSuite) start(rows []dto.ImportRow) *dto.StartImportResult {
	result, err := suite.svc.Imports.StartImport(suite.ctx, suite.bank.BankAccountID, rows, clerk)
	suite.Require().NoError(err)
	return result
}

func (suite *ImportServiceTestSuite) importedEntries() []dto.EntryResponse {
	page, err := suite.svc.Ledger.ListEntries(suite.ctx, dto.ListEntriesParams{BankAccountID: suite.bank.BankAccountID, Limit: 100})
	suite.Require().NoError(err)
	return page.Entries
}

func (suite *ImportServiceTestSuite) TestScenario() {
	result := suite.start(scenarioRows())
	suite.Equal(3, result.TotalRows)
	suite.Equal(3, result.StagedRows)
	suite.Empty(result.RowErrors)
	suite.Empty(suite.importedEntries(), "staging must not touch production")

	_, err := suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, clerk)
	var dual *apperrors.DualControlError
	suite.Require().ErrorAs(err, &dual)
	suite.Equal(clerk.UserID, dual.UserID)

	counts, err := suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, reviewer)
	suite.Require().NoError(err)
	suite.Equal(domain.ImportCounts{ClientsCreated: 1, ClientsReused: 1, CasesCreated: 2, VendorsCreated: 1, EntriesCreated: 3}, *counts)

	entries := suite.importedEntries()
	suite.Require().Len(entries, 3)
	// Listing is newest first.
	suite.Equal("2024-05-03", entries[0].TransactionDate.Format("2006-01-02"))
	suite.Equal("2024-05-02", entries[1].TransactionDate.Format("2006-01-02"))
	suite.Equal("2024-05-01", entries[2].TransactionDate.Format("2006-01-02"))
	suite.Equal(suite.existing.ClientID, *entries[2].ClientID)
	for _, e := range entries {
		suite.Equal(result.BatchID, *e.ImportBatchID)
		suite.Equal(domain.Pending, e.Status)
		suite.Len(suite.history(e.EntryID), 1)
	}
	suite.NotNil(entries[0].VendorID)
	suite.Nil(entries[1].VendorID)

	batch, err := suite.svc.Imports.GetBatch(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Equal(domain.Committed, batch.Status)
	suite.Equal(reviewer.UserID, *batch.ReviewedBy)
	suite.Equal(counts, batch.Counts)

	staged, err := suite.store.FindStaged(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Empty(staged.Clients)
	suite.Empty(staged.Cases)
	suite.Empty(staged.Entries)

	sent := suite.notifier.Sent()
	suite.Require().Len(sent, 1)
	suite.Equal(clerk.UserID, sent[0].UserID)
	suite.Equal(notify.ImportCommitted, sent[0].Kind)

	suite.Equal("700.00", suite.balance(domain.ScopeClient, *entries[0].ClientID))
}

func (suite *ImportServiceTestSuite) TestApprove_Twice() {
	result := suite.start(scenarioRows())
	_, err := suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, reviewer)
	suite.Require().NoError(err)

	other := domain.Actor{UserID: "user-partner", CanApproveImports: true}
	_, err = suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, other)

	var resolved *apperrors.AlreadyResolvedError
	suite.Require().ErrorAs(err, &resolved)
	suite.Equal(string(domain.Committed), resolved.Status)
	suite.Len(suite.importedEntries(), 3)

	err = suite.svc.Imports.RejectImport(suite.ctx, result.BatchID, other, "too late")
	suite.ErrorIs(err, apperrors.ErrAlreadyResolved)
}

func (suite *ImportServiceTestSuite) TestApprove_DualControlBeforeResolved() {
	result := suite.start(scenarioRows())
	_, err := suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, reviewer)
	suite.Require().NoError(err)

	_, err = suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, clerk)

	suite.ErrorIs(err, apperrors.ErrDualControl)
}

func (suite *ImportServiceTestSuite) TestApprove_RequiresCapability() {
	result := suite.start(scenarioRows())
	noCapability := domain.Actor{UserID: "user-paralegal"}

	_, err := suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, noCapability)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	batch, err := suite.svc.Imports.GetBatch(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Equal(domain.PendingReview, batch.Status)
}

func (suite *ImportServiceTestSuite) TestApprove_ComplianceFailureRollsBack() {
	rows := []dto.ImportRow{
		{Row: 1, ClientName: "Mary Major", CaseTitle: "Major Estate", TransactionDate: "2024-05-01", Direction: "DEPOSIT", Amount: "100.00", Payee: "Mary Major", Description: "Retainer"},
		{Row: 2, ClientName: "Mary Major", CaseTitle: "Major Estate", TransactionDate: "2024-05-02", Direction: "WITHDRAWAL", Amount: "150.00", Payee: "Expert Witness LLC", Description: "Report"},
	}
	result := suite.start(rows)

	_, err := suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, reviewer)

	var insufficient *apperrors.InsufficientFundsError
	suite.Require().ErrorAs(err, &insufficient)
	suite.Equal("100.00", insufficient.Available.StringFixed(2))
	suite.Empty(suite.importedEntries())

	names, err := suite.store.FindClientsByNames(suite.ctx, []string{"Mary Major"})
	suite.Require().NoError(err)
	suite.Empty(names)

	batch, err := suite.svc.Imports.GetBatch(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Equal(domain.PendingReview, batch.Status)

	staged, err := suite.store.FindStaged(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Len(staged.Entries, 2)
	suite.Empty(suite.notifier.Sent())
}

func (suite *ImportServiceTestSuite) TestApprove_NotifierFailureRollsBack() {
	result := suite.start(scenarioRows())
	suite.notifier.err = errors.New("redis unavailable")

	_, err := suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, reviewer)

	suite.Error(err)
	suite.Empty(suite.importedEntries())

	batch, err := suite.svc.Imports.GetBatch(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Equal(domain.PendingReview, batch.Status)
	suite.Nil(batch.ReviewedBy)

	staged, err := suite.store.FindStaged(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Len(staged.Entries, 3)
}

func (suite *ImportServiceTestSuite) TestReject_NotifierFailureRollsBack() {
	result := suite.start(scenarioRows())
	suite.notifier.err = errors.New("redis unavailable")

	err := suite.svc.Imports.RejectImport(suite.ctx, result.BatchID, reviewer, "wrong file")
	suite.Error(err)

	batch, err := suite.svc.Imports.GetBatch(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Equal(domain.PendingReview, batch.Status)
	suite.Nil(batch.RejectionReason)

	staged, err := suite.store.FindStaged(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Len(staged.Entries, 3)

	suite.notifier.err = nil
	suite.Require().NoError(suite.svc.Imports.RejectImport(suite.ctx, result.BatchID, reviewer, "wrong file"))
	suite.Len(suite.notifier.Sent(), 1)
}

func (suite *ImportServiceTestSuite) TestApprove_LinksClientAsVendor() {
	rows := []dto.ImportRow{
		{Row: 1, ClientName: "Acme Holdings", CaseTitle: "General Retainer", TransactionDate: "2024-05-01", Direction: "DEPOSIT", Amount: "900.00", Payee: "Acme Holdings", Description: "Settlement received"},
		{Row: 2, ClientName: "Acme Holdings", CaseTitle: "General Retainer", TransactionDate: "2024-05-02", Direction: "WITHDRAWAL", Amount: "900.00", Payee: "Acme Holdings", Description: "Settlement disbursed"},
	}
	result := suite.start(rows)

	counts, err := suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, reviewer)
	suite.Require().NoError(err)
	suite.Equal(1, counts.VendorsCreated)

	vendors, err := suite.store.FindVendorsByNames(suite.ctx, []string{"Acme Holdings"})
	suite.Require().NoError(err)
	vendor, ok := vendors["acme holdings"]
	suite.Require().True(ok)
	suite.Require().NotNil(vendor.LinkedClientID)
	suite.Equal(suite.existing.ClientID, *vendor.LinkedClientID)
}

func (suite *ImportServiceTestSuite) TestStartImport_RowErrors() {
	rows := []dto.ImportRow{
		{Row: 1, ClientName: "Mary Major", CaseTitle: "Major Estate", TransactionDate: "05/01/2024", Direction: "DEPOSIT", Amount: "100.00", Payee: "Mary Major", Description: "Retainer"},
		{Row: 2, ClientName: "Mary Major", CaseTitle: "Major Estate", TransactionDate: "2024-05-01", Direction: "DEPOSIT", Amount: "-4", Payee: "Mary Major", Description: "Retainer"},
		{Row: 3, ClientName: "Mary Major", TransactionDate: "2024-05-01", Direction: "WITHDRAWAL", Amount: "10.00", Payee: "Court", Description: "Fee"},
		{Row: 4, ClientName: "Mary Major", CaseTitle: "Major Estate", TransactionDate: "2024-05-01", Direction: "DEPOSIT", Amount: "100.00", Payee: "Mary Major", Description: "Retainer"},
	}

	result := suite.start(rows)

	suite.Equal(4, result.TotalRows)
	suite.Equal(1, result.StagedRows)
	suite.Require().Len(result.RowErrors, 3)
	suite.Equal(domain.RowError{Row: 1, Field: "transactionDate", Message: "must be a date in YYYY-MM-DD format"}, result.RowErrors[0])
	suite.Equal("amount", result.RowErrors[1].Field)
	suite.Equal("caseTitle", result.RowErrors[2].Field)

	staged, err := suite.store.FindStaged(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Len(staged.Clients, 1)
	suite.Len(staged.Cases, 1)
	suite.Len(staged.Entries, 1)

	batch, err := suite.svc.Imports.GetBatch(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Equal(domain.PendingReview, batch.Status)
	suite.Equal(clerk.UserID, batch.CreatedBy)
	suite.Len(batch.RowErrors, 3)
}

func (suite *ImportServiceTestSuite) TestStartImport_UnknownBankAccount() {
	_, err := suite.svc.Imports.StartImport(suite.ctx, "missing", scenarioRows(), clerk)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ImportServiceTestSuite) TestReject() {
	result := suite.start(scenarioRows())

	err := suite.svc.Imports.RejectImport(suite.ctx, result.BatchID, clerk, "wrong file")
	suite.ErrorIs(err, apperrors.ErrDualControl)

	err = suite.svc.Imports.RejectImport(suite.ctx, result.BatchID, reviewer, "")
	suite.ErrorIs(err, apperrors.ErrValidation)

	err = suite.svc.Imports.RejectImport(suite.ctx, result.BatchID, reviewer, "wrong file")
	suite.Require().NoError(err)

	batch, err := suite.svc.Imports.GetBatch(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Equal(domain.Rejected, batch.Status)
	suite.Equal("wrong file", *batch.RejectionReason)

	staged, err := suite.store.FindStaged(suite.ctx, result.BatchID)
	suite.Require().NoError(err)
	suite.Empty(staged.Entries)
	suite.Empty(suite.importedEntries())

	sent := suite.notifier.Sent()
	suite.Require().Len(sent, 1)
	suite.Equal(notify.ImportRejected, sent[0].Kind)

	_, err = suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, reviewer)
	suite.ErrorIs(err, apperrors.ErrAlreadyResolved)
}

func (suite *ImportServiceTestSuite) TestApprove_NumbersClientsInFileOrder() {
	rows := []dto.ImportRow{
		{Row: 1, ClientName: "Zed Zulu", CaseTitle: "Zulu Estate", TransactionDate: "2024-05-01", Direction: "DEPOSIT", Amount: "100.00", Payee: "Zed Zulu", Description: "Retainer"},
		{Row: 2, ClientName: "Abe Able", CaseTitle: "Able Trust", TransactionDate: "2024-05-01", Direction: "DEPOSIT", Amount: "200.00", Payee: "Abe Able", Description: "Retainer"},
	}
	result := suite.start(rows)

	_, err := suite.svc.Imports.ApproveImport(suite.ctx, result.BatchID, reviewer)
	suite.Require().NoError(err)

	clients, err := suite.store.FindClientsByNames(suite.ctx, []string{"Zed Zulu", "Abe Able"})
	suite.Require().NoError(err)
	zed, ok := clients["zed zulu"]
	suite.Require().True(ok)
	abe, ok := clients["abe able"]
	suite.Require().True(ok)
	suite.Less(zed.ClientNumber, abe.ClientNumber)
}
