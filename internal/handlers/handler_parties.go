package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
	"github.com/SscSPs/trust_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type partyHandler struct {
	partyService portssvc.PartySvc
}

// RegisterPartyRoutes registers client and case routes.
func RegisterPartyRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvc) {
	h := &partyHandler{partyService: partyService}

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("/:clientID", h.getClient)
		clients.POST("/:clientID/cases", h.createCase)
	}
	rg.GET("/cases/:caseID", h.getCase)
}

// createClient godoc
// @Summary Open a client
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.ClientResponse
// @Security BearerAuth
// @Router /clients [post]
func (h *partyHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateClient", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	client, err := h.partyService.CreateClient(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "create client")
		return
	}
	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// getClient godoc
// @Summary Get a client
// @Tags clients
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{clientID} [get]
func (h *partyHandler) getClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", c.Param("clientID")))

	client, err := h.partyService.GetClient(c.Request.Context(), c.Param("clientID"))
	if err != nil {
		respondError(c, logger, err, "retrieve client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// createCase godoc
// @Summary Open a case for a client
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   case body dto.CreateCaseRequest true "Case details"
// @Success 201 {object} dto.CaseResponse
// @Security BearerAuth
// @Router /clients/{clientID}/cases [post]
func (h *partyHandler) createCase(c *gin.Context) {
	clientID := c.Param("clientID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", clientID))
	var req dto.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	kase, err := h.partyService.CreateCase(c.Request.Context(), clientID, req, actor)
	if err != nil {
		respondError(c, logger, err, "create case")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCaseResponse(kase))
}

// getCase godoc
// @Summary Get a case
// @Tags clients
// @Produce  json
// @Param   caseID path string true "Case ID"
// @Success 200 {object} dto.CaseResponse
// @Security BearerAuth
// @Router /cases/{caseID} [get]
func (h *partyHandler) getCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("case_id", c.Param("caseID")))

	kase, err := h.partyService.GetCase(c.Request.Context(), c.Param("caseID"))
	if err != nil {
		respondError(c, logger, err, "retrieve case")
		return
	}
	c.JSON(http.StatusOK, dto.ToCaseResponse(kase))
}
