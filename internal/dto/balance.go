package dto

import (
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceResponse defines the data returned for a derived balance.
type BalanceResponse struct {
	Scope     domain.BalanceScope `json:"scope"`
	ID        string              `json:"id"`
	Amount    decimal.Decimal     `json:"amount"`
	Formatted string              `json:"formatted"`
	Sign      domain.BalanceSign  `json:"sign"`
}

// ListBalancesRequest asks for many balances of one scope.
type ListBalancesRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,max=500,dive,required"`
}

// ListBalancesResponse wraps balances in request order.
type ListBalancesResponse struct {
	Balances []BalanceResponse `json:"balances"`
}

// ToBalanceResponse converts a domain.Balance to BalanceResponse DTO.
func ToBalanceResponse(b domain.Balance) BalanceResponse {
	return BalanceResponse{
		Scope:     b.Scope,
		ID:        b.ID,
		Amount:    b.Amount,
		Formatted: b.Formatted(),
		Sign:      b.Sign,
	}
}

// ToBalanceResponses converts balances to DTOs.
func ToBalanceResponses(balances []domain.Balance) []BalanceResponse {
	responses := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		responses[i] = ToBalanceResponse(b)
	}
	return responses
}
