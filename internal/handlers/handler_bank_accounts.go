package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
	"github.com/SscSPs/trust_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type bankAccountHandler struct {
	partyService portssvc.PartySvc
	checkService portssvc.CheckSequencerSvc
}

// RegisterBankAccountRoutes registers bank account and check sequencing routes.
func RegisterBankAccountRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvc, checkService portssvc.CheckSequencerSvc) {
	h := &bankAccountHandler{partyService: partyService, checkService: checkService}

	accounts := rg.Group("/bank-accounts")
	{
		accounts.POST("", h.createBankAccount)
		accounts.PUT("/:bankAccountID/next-check-number", h.setNextCheckNumber)
		accounts.POST("/:bankAccountID/checks/allocate", h.allocateChecks)
		accounts.POST("/:bankAccountID/checks/assign", h.assignChecks)
	}
}

// createBankAccount godoc
// @Summary Register a trust bank account
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 409 {object} map[string]string "Account number already registered"
// @Security BearerAuth
// @Router /bank-accounts [post]
func (h *bankAccountHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	account, err := h.partyService.CreateBankAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "create bank account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

// setNextCheckNumber godoc
// @Summary Correct a bank account's next check number
// @Description The sequencer never hands out a number below its own counter, even after this edit.
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   body body dto.SetNextCheckNumberRequest true "Next check number"
// @Success 200 {object} dto.BankAccountResponse
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/next-check-number [put]
func (h *bankAccountHandler) setNextCheckNumber(c *gin.Context) {
	bankAccountID := c.Param("bankAccountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("bank_account_id", bankAccountID))
	var req dto.SetNextCheckNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetNextCheckNumber", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	account, err := h.partyService.SetNextCheckNumber(c.Request.Context(), bankAccountID, req.NextCheckNumber, actor)
	if err != nil {
		respondError(c, logger, err, "set next check number")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// allocateChecks godoc
// @Summary Allocate contiguous check numbers
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   body body dto.AllocateChecksRequest true "How many numbers"
// @Success 200 {object} dto.AllocateChecksResponse
// @Failure 503 {object} map[string]string "Sequencer busy, retry"
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/checks/allocate [post]
func (h *bankAccountHandler) allocateChecks(c *gin.Context) {
	bankAccountID := c.Param("bankAccountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("bank_account_id", bankAccountID))
	var req dto.AllocateChecksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AllocateChecks", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	numbers, err := h.checkService.AllocateCheckNumbers(c.Request.Context(), bankAccountID, req.Count)
	if err != nil {
		respondError(c, logger, err, "allocate check numbers")
		return
	}
	c.JSON(http.StatusOK, dto.AllocateChecksResponse{BankAccountID: bankAccountID, Numbers: numbers})
}

// assignChecks godoc
// @Summary Assign check numbers to pending withdrawals
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   bankAccountID path string true "Bank account ID"
// @Param   body body dto.AssignChecksRequest true "Entries, in check order"
// @Success 200 {object} dto.AssignChecksResponse
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID}/checks/assign [post]
func (h *bankAccountHandler) assignChecks(c *gin.Context) {
	bankAccountID := c.Param("bankAccountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("bank_account_id", bankAccountID))
	var req dto.AssignChecksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AssignChecks", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	assignments, err := h.checkService.AssignCheckNumbers(c.Request.Context(), bankAccountID, req.EntryIDs, actor)
	if err != nil {
		respondError(c, logger, err, "assign check numbers")
		return
	}
	c.JSON(http.StatusOK, dto.AssignChecksResponse{BankAccountID: bankAccountID, Assignments: assignments})
}
