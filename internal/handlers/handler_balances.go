package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
	"github.com/SscSPs/trust_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type balanceHandler struct {
	balanceService portssvc.BalanceSvc
}

// RegisterBalanceRoutes registers routes for derived balances.
func RegisterBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvc) {
	h := &balanceHandler{balanceService: balanceService}

	balances := rg.Group("/balances")
	{
		balances.GET("/:scope/:id", h.getBalance)
		balances.POST("/:scope", h.listBalances)
	}
}

// getBalance godoc
// @Summary Balance of a client, case or bank account
// @Tags balances
// @Produce  json
// @Param   scope path string true "client, case or bank_account"
// @Param   id path string true "Entity ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} map[string]string "Entity not found"
// @Security BearerAuth
// @Router /balances/{scope}/{id} [get]
func (h *balanceHandler) getBalance(c *gin.Context) {
	scope := domain.BalanceScope(c.Param("scope"))
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("scope", string(scope)), slog.String("id", c.Param("id")))

	balance, err := h.balanceService.GetBalance(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance))
}

// listBalances godoc
// @Summary Balances of many entities of one scope
// @Tags balances
// @Accept  json
// @Produce  json
// @Param   scope path string true "client, case or bank_account"
// @Param   body body dto.ListBalancesRequest true "Entity IDs"
// @Success 200 {object} dto.ListBalancesResponse
// @Security BearerAuth
// @Router /balances/{scope} [post]
func (h *balanceHandler) listBalances(c *gin.Context) {
	scope := domain.BalanceScope(c.Param("scope"))
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("scope", string(scope)))
	var req dto.ListBalancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ListBalances", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	balances, err := h.balanceService.ListBalances(c.Request.Context(), scope, req.IDs)
	if err != nil {
		respondError(c, logger, err, "list balances")
		return
	}
	c.JSON(http.StatusOK, dto.ListBalancesResponse{Balances: dto.ToBalanceResponses(balances)})
}
