package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
	"github.com/SscSPs/trust_ledger_app/internal/handlers"
	"github.com/SscSPs/trust_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type HandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	jwtSecret   string
	ledger      *MockLedgerService
	audit       *MockAuditService
	checks      *MockCheckSequencer
	imports     *MockImportService
	balances    *MockBalanceService
	parties     *MockPartyService
	clerkToken  string
	reviewToken string
}

func (suite *HandlerTestSuite) generateTestToken(actor domain.Actor) string {
	token, err := middleware.SignActorToken(suite.jwtSecret, "", actor, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.ledger = new(MockLedgerService)
	suite.audit = new(MockAuditService)
	suite.checks = new(MockCheckSequencer)
	suite.imports = new(MockImportService)
	suite.balances = new(MockBalanceService)
	suite.parties = new(MockPartyService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret, ""))
	handlers.RegisterEntryRoutes(v1, suite.ledger, suite.audit)
	handlers.RegisterBankAccountRoutes(v1, suite.parties, suite.checks)
	handlers.RegisterBalanceRoutes(v1, suite.balances)
	handlers.RegisterPartyRoutes(v1, suite.parties)
	handlers.RegisterImportRoutes(v1, suite.imports)

	suite.clerkToken = suite.generateTestToken(domain.Actor{UserID: "user-clerk"})
	suite.reviewToken = suite.generateTestToken(domain.Actor{UserID: "user-reviewer", CanApproveImports: true})
}

func (suite *HandlerTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func byUser(userID string) any {
	return mock.MatchedBy(func(a domain.Actor) bool { return a.UserID == userID })
}

func sampleEntry(id string) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		EntryID:         id,
		BankAccountID:   "bank-1",
		Amount:          decimal.RequireFromString("250.00"),
		Direction:       domain.Withdrawal,
		TransactionDate: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Status:          domain.Pending,
		Payee:           "Court Clerk",
		Description:     "Filing fee",
	}
}

func (suite *HandlerTestSuite) TestCreateEntry_Success() {
	suite.ledger.On("CreateEntry", mock.Anything, mock.MatchedBy(func(r dto.CreateEntryRequest) bool {
		return r.BankAccountID == "bank-1" && r.Amount.Equal(decimal.RequireFromString("250.00"))
	}), byUser("user-clerk")).Return(sampleEntry("entry-1"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/entries", suite.clerkToken, map[string]any{
		"bankAccountID":   "bank-1",
		"clientID":        "client-1",
		"caseID":          "case-1",
		"amount":          "250.00",
		"direction":       "WITHDRAWAL",
		"transactionDate": "2024-06-03T00:00:00Z",
		"payee":           "Court Clerk",
		"description":     "Filing fee",
	})

	suite.Equal(http.StatusCreated, w.Code)
	body := suite.decode(w)
	suite.Equal("entry-1", body["entryID"])
	suite.Equal("(250.00)", body["signedAmount"])
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateEntry_InsufficientFunds() {
	suite.ledger.On("CreateEntry", mock.Anything, mock.Anything, mock.Anything).Return(nil, &apperrors.InsufficientFundsError{
		EntityKind: "client",
		EntityID:   "client-1",
		Available:  decimal.RequireFromString("1500"),
		Requested:  decimal.RequireFromString("1600"),
		Shortfall:  decimal.RequireFromString("100"),
	}).Once()

	w := suite.do(http.MethodPost, "/api/v1/entries", suite.clerkToken, map[string]any{
		"bankAccountID":   "bank-1",
		"amount":          "1600.00",
		"direction":       "WITHDRAWAL",
		"transactionDate": "2024-06-03T00:00:00Z",
		"payee":           "Jane Roe",
		"description":     "Refund",
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	body := suite.decode(w)
	suite.Equal("100.00", body["shortfall"])
	suite.Equal("client", body["entityKind"])
}

func (suite *HandlerTestSuite) TestCreateEntry_RejectsUnknownDirection() {
	w := suite.do(http.MethodPost, "/api/v1/entries", suite.clerkToken, map[string]any{
		"bankAccountID":   "bank-1",
		"amount":          "10.00",
		"direction":       "GIFT",
		"transactionDate": "2024-06-03T00:00:00Z",
		"payee":           "Someone",
		"description":     "Nope",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.ledger.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestRequiresToken() {
	w := suite.do(http.MethodGet, "/api/v1/entries/entry-1", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.ledger.AssertNotCalled(suite.T(), "GetEntry", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestUpdateEntry_FrozenIsConflict() {
	suite.ledger.On("UpdateEntry", mock.Anything, "entry-1", mock.Anything, byUser("user-clerk"), "typo").Return(nil, &apperrors.FrozenEntryError{
		EntryID: "entry-1",
		Status:  "CLEARED",
		Fields:  []string{"amount"},
	}).Once()

	w := suite.do(http.MethodPatch, "/api/v1/entries/entry-1", suite.clerkToken, map[string]any{
		"amount": "300.00",
		"reason": "typo",
	})

	suite.Equal(http.StatusConflict, w.Code)
	body := suite.decode(w)
	suite.Equal("CLEARED", body["status"])
	suite.Equal([]any{"amount"}, body["fields"])
}

func (suite *HandlerTestSuite) TestVoidEntry_RequiresReason() {
	w := suite.do(http.MethodPost, "/api/v1/entries/entry-1/void", suite.clerkToken, map[string]any{})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.ledger.AssertNotCalled(suite.T(), "VoidEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestVoidEntry_AlreadyVoided() {
	suite.ledger.On("VoidEntry", mock.Anything, "entry-1", "duplicate", mock.Anything).
		Return(nil, &apperrors.AlreadyVoidedError{EntryID: "entry-1", VoidedBy: "user-clerk"}).Once()

	w := suite.do(http.MethodPost, "/api/v1/entries/entry-1/void", suite.clerkToken, map[string]any{"reason": "duplicate"})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestListEntries_PassesFilters() {
	suite.ledger.On("ListEntries", mock.Anything, dto.ListEntriesParams{ClientID: "client-1", Status: "PENDING", Limit: 5}).
		Return(&dto.ListEntriesResponse{Entries: []dto.EntryResponse{}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/entries?clientID=client-1&status=PENDING&limit=5", suite.clerkToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestEntryAudit_SummaryView() {
	suite.audit.On("GetChangesSummary", mock.Anything, "entry-1").Return([]dto.ChangesSummary{
		{AuditID: "a-1", Action: domain.AuditCreate, Actor: "user-clerk", Summary: "amount: 250.00"},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/entries/entry-1/audit?view=summary", suite.clerkToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.audit.AssertNotCalled(suite.T(), "GetAuditHistory", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestAllocateChecks_BusyIsRetryable() {
	suite.checks.On("AllocateCheckNumbers", mock.Anything, "bank-1", 3).
		Return(nil, &apperrors.SequencerBusyError{BankAccountID: "bank-1", Err: apperrors.ErrLockTimeout}).Once()

	w := suite.do(http.MethodPost, "/api/v1/bank-accounts/bank-1/checks/allocate", suite.clerkToken, map[string]any{"count": 3})
	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Equal("1", w.Header().Get("Retry-After"))
}

func (suite *HandlerTestSuite) TestAllocateChecks_Success() {
	suite.checks.On("AllocateCheckNumbers", mock.Anything, "bank-1", 3).Return([]int64{1001, 1002, 1003}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/bank-accounts/bank-1/checks/allocate", suite.clerkToken, map[string]any{"count": 3})
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AllocateChecksResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal([]int64{1001, 1002, 1003}, resp.Numbers)
}

func (suite *HandlerTestSuite) TestApproveImport_DualControlIsForbidden() {
	suite.imports.On("ApproveImport", mock.Anything, "batch-1", byUser("user-clerk")).
		Return(nil, &apperrors.DualControlError{BatchID: "batch-1", UserID: "user-clerk"}).Once()

	w := suite.do(http.MethodPost, "/api/v1/imports/batch-1/approve", suite.clerkToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestApproveImport_AlreadyResolved() {
	suite.imports.On("ApproveImport", mock.Anything, "batch-1", byUser("user-reviewer")).
		Return(nil, &apperrors.AlreadyResolvedError{BatchID: "batch-1", Status: "COMMITTED"}).Once()

	w := suite.do(http.MethodPost, "/api/v1/imports/batch-1/approve", suite.reviewToken, nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestStartImport_MultipartCSV() {
	csvBody := "client_name,case_title,transaction_date,direction,amount,payee,description\n" +
		"Jane Roe,Roe v. Acme,2024-05-01,DEPOSIT,1000.00,Jane Roe,Retainer\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	suite.Require().NoError(mw.WriteField("bankAccountID", "bank-1"))
	part, err := mw.CreateFormFile("file", "upload.csv")
	suite.Require().NoError(err)
	_, err = part.Write([]byte(csvBody))
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	suite.imports.On("StartImport", mock.Anything, "bank-1", mock.MatchedBy(func(rows []dto.ImportRow) bool {
		return len(rows) == 1 && rows[0].Row == 1 && rows[0].ClientName == "Jane Roe" && rows[0].Amount == "1000.00"
	}), byUser("user-clerk")).Return(&dto.StartImportResult{BatchID: "batch-1", TotalRows: 1, StagedRows: 1}, nil).Once()

	req, err := http.NewRequest(http.MethodPost, "/api/v1/imports", &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.clerkToken)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.imports.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestStartImport_BadCSVHeader() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	suite.Require().NoError(mw.WriteField("bankAccountID", "bank-1"))
	part, err := mw.CreateFormFile("file", "upload.csv")
	suite.Require().NoError(err)
	_, err = fmt.Fprint(part, "foo,bar\n1,2\n")
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/v1/imports", &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.clerkToken)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.imports.AssertNotCalled(suite.T(), "StartImport", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestRejectImport() {
	suite.imports.On("RejectImport", mock.Anything, "batch-1", byUser("user-reviewer"), "wrong account").Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/imports/batch-1/reject", suite.reviewToken, map[string]any{"reason": "wrong account"})
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("REJECTED", suite.decode(w)["status"])
}

func (suite *HandlerTestSuite) TestGetBalance_NegativeIsParenthesized() {
	suite.balances.On("GetBalance", mock.Anything, domain.ScopeClient, "client-1").
		Return(domain.NewBalance(domain.ScopeClient, "client-1", decimal.RequireFromString("-12.5")), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/balances/client/client-1", suite.clerkToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("(12.50)", suite.decode(w)["formatted"])
}

func (suite *HandlerTestSuite) TestGetBalance_BadScope() {
	suite.balances.On("GetBalance", mock.Anything, domain.BalanceScope("planet"), "x").
		Return(domain.Balance{}, apperrors.NewValidationError("scope", "must be client, case or bank_account")).Once()

	w := suite.do(http.MethodGet, "/api/v1/balances/planet/x", suite.clerkToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w)["fields"], "scope")
}

func (suite *HandlerTestSuite) TestListBalances_KeepsRequestOrder() {
	ids := []string{"case-2", "case-1"}
	suite.balances.On("ListBalances", mock.Anything, domain.ScopeCase, ids).Return([]domain.Balance{
		domain.NewBalance(domain.ScopeCase, "case-2", decimal.Zero),
		domain.NewBalance(domain.ScopeCase, "case-1", decimal.RequireFromString("40")),
	}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/balances/case", suite.clerkToken, map[string]any{"ids": ids})
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListBalancesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Balances, 2)
	suite.Equal("case-2", resp.Balances[0].ID)
	suite.Equal("40.00", resp.Balances[1].Formatted)
}

func (suite *HandlerTestSuite) TestCreateClient() {
	suite.parties.On("CreateClient", mock.Anything, dto.CreateClientRequest{Name: "Jane Roe", Email: "jane@example.com"}, byUser("user-clerk")).
		Return(&domain.Client{ClientID: "client-1", ClientNumber: 1, Name: "Jane Roe", Email: "jane@example.com", IsActive: true}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/clients", suite.clerkToken, map[string]any{"name": "Jane Roe", "email": "jane@example.com"})
	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal("client-1", suite.decode(w)["clientID"])
}

func (suite *HandlerTestSuite) TestCreateClient_RejectsBadEmail() {
	w := suite.do(http.MethodPost, "/api/v1/clients", suite.clerkToken, map[string]any{"name": "Jane Roe", "email": "not-an-email"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.parties.AssertNotCalled(suite.T(), "CreateClient", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetCase_NotFound() {
	suite.parties.On("GetCase", mock.Anything, "case-404").Return(nil, apperrors.NewNotFoundError("case case-404")).Once()

	w := suite.do(http.MethodGet, "/api/v1/cases/case-404", suite.clerkToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
