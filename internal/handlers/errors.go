package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// retryAfterSeconds is sent with 503 responses for lock contention.
const retryAfterSeconds = "1"

// respondError maps a service error to an HTTP status and writes it. action names the failed
// operation in logs and in the body of 500 responses.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	var (
		validationErr *apperrors.ValidationError
		fundsErr      *apperrors.InsufficientFundsError
		frozenErr     *apperrors.FrozenEntryError
	)

	switch {
	case errors.As(err, &validationErr):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": validationErr.Fields})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDualControl), errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &frozenErr):
		logger.Warn("Frozen entry edit rejected", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "status": frozenErr.Status, "fields": frozenErr.Fields})
	case errors.Is(err, apperrors.ErrAlreadyVoided),
		errors.Is(err, apperrors.ErrAlreadyResolved),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &fundsErr):
		logger.Warn("Insufficient funds", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      err.Error(),
			"entityKind": fundsErr.EntityKind,
			"entityID":   fundsErr.EntityID,
			"available":  fundsErr.Available.StringFixed(2),
			"requested":  fundsErr.Requested.StringFixed(2),
			"shortfall":  fundsErr.Shortfall.StringFixed(2),
		})
	case errors.Is(err, apperrors.ErrCompliance):
		logger.Warn("Compliance violation", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case apperrors.IsRetryable(err):
		logger.Warn("Lock contention", slog.String("action", action), slog.String("error", err.Error()))
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.Error("Service call failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// requireActor returns the authenticated actor or writes 401.
func requireActor(c *gin.Context, logger *slog.Logger) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}
