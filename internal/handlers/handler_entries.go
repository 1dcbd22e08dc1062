package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
	"github.com/SscSPs/trust_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// entryHandler handles HTTP requests related to ledger entries and their audit trail.
type entryHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	auditService  portssvc.AuditSvc
}

// RegisterEntryRoutes registers routes related to ledger entries.
func RegisterEntryRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, auditService portssvc.AuditSvc) {
	h := &entryHandler{ledgerService: ledgerService, auditService: auditService}

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PATCH("/:entryID", h.updateEntry)
		entries.POST("/:entryID/void", h.voidEntry)
		entries.POST("/:entryID/clear", h.clearEntry)
		entries.GET("/:entryID/audit", h.getEntryAudit)
	}
}

// createEntry godoc
// @Summary Record a ledger entry
// @Description Creates a PENDING entry. Debits are rejected when they would overdraw the client or case.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 422 {object} map[string]interface{} "Insufficient funds"
// @Failure 503 {object} map[string]string "Lock contention, retry"
// @Security BearerAuth
// @Router /entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create entry",
		slog.String("bank_account_id", req.BankAccountID),
		slog.String("direction", string(req.Direction)),
		slog.String("amount", req.Amount.String()))

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "create entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List ledger entries
// @Description Newest first, filtered by bank account, client, case or status.
// @Tags entries
// @Produce  json
// @Param   bankAccountID query string false "Bank account"
// @Param   clientID query string false "Client"
// @Param   caseID query string false "Case"
// @Param   status query string false "PENDING, CLEARED or VOIDED"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a ledger entry
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", c.Param("entryID")))

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, logger, err, "retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// updateEntry godoc
// @Summary Edit a ledger entry
// @Description Only the description may change once an entry is CLEARED or VOIDED.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Fields to change"
// @Success 200 {object} dto.EntryResponse
// @Failure 409 {object} map[string]interface{} "Entry is frozen"
// @Failure 422 {object} map[string]interface{} "Insufficient funds"
// @Security BearerAuth
// @Router /entries/{entryID} [patch]
func (h *entryHandler) updateEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))
	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	entry, err := h.ledgerService.UpdateEntry(c.Request.Context(), entryID, req, actor, req.Reason)
	if err != nil {
		respondError(c, logger, err, "update entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// voidEntry godoc
// @Summary Void a ledger entry
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   body body dto.VoidEntryRequest true "Void reason"
// @Success 200 {object} dto.EntryResponse
// @Failure 409 {object} map[string]string "Already voided"
// @Security BearerAuth
// @Router /entries/{entryID}/void [post]
func (h *entryHandler) voidEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))
	var req dto.VoidEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for VoidEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	entry, err := h.ledgerService.VoidEntry(c.Request.Context(), entryID, req.Reason, actor)
	if err != nil {
		respondError(c, logger, err, "void entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// clearEntry godoc
// @Summary Mark a pending entry as cleared by the bank
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 409 {object} map[string]string "Entry is not pending"
// @Security BearerAuth
// @Router /entries/{entryID}/clear [post]
func (h *entryHandler) clearEntry(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	entry, err := h.ledgerService.ClearEntry(c.Request.Context(), entryID, actor)
	if err != nil {
		respondError(c, logger, err, "clear entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// getEntryAudit godoc
// @Summary Audit history of a ledger entry
// @Description Oldest first. With view=summary only the human-readable change lines are returned.
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   view query string false "full or summary" default(full)
// @Success 200 {object} dto.AuditHistoryResponse
// @Security BearerAuth
// @Router /entries/{entryID}/audit [get]
func (h *entryHandler) getEntryAudit(c *gin.Context) {
	entryID := c.Param("entryID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("entry_id", entryID))

	if c.Query("view") == "summary" {
		summary, err := h.auditService.GetChangesSummary(c.Request.Context(), entryID)
		if err != nil {
			respondError(c, logger, err, "retrieve audit summary")
			return
		}
		c.JSON(http.StatusOK, gin.H{"entryID": entryID, "summary": summary})
		return
	}

	records, err := h.auditService.GetAuditHistory(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger, err, "retrieve audit history")
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditHistoryResponse(entryID, records))
}
