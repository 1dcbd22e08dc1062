package dto

import (
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
)

// CreateClientRequest defines the data needed to open a client.
type CreateClientRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"omitempty,email"`
}

// CreateCaseRequest defines the data needed to open a case for a client.
type CreateCaseRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

// CreateBankAccountRequest defines the data needed to register a trust bank account.
type CreateBankAccountRequest struct {
	Name            string `json:"name" binding:"required,max=255"`
	AccountNumber   string `json:"accountNumber" binding:"required,max=64"`
	NextCheckNumber int64  `json:"nextCheckNumber" binding:"required,min=1"`
}

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ClientID     string    `json:"clientID"`
	ClientNumber int64     `json:"clientNumber"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`
}

// CaseResponse defines the data returned for a case.
type CaseResponse struct {
	CaseID     string    `json:"caseID"`
	CaseNumber int64     `json:"caseNumber"`
	ClientID   string    `json:"clientID"`
	Title      string    `json:"title"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	CreatedBy  string    `json:"createdBy"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID   string    `json:"bankAccountID"`
	Name            string    `json:"name"`
	AccountNumber   string    `json:"accountNumber"`
	NextCheckNumber int64     `json:"nextCheckNumber"`
	IsActive        bool      `json:"isActive"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
}

// ToClientResponse converts a domain.Client to ClientResponse DTO.
func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:     c.ClientID,
		ClientNumber: c.ClientNumber,
		Name:         c.Name,
		Email:        c.Email,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		CreatedBy:    c.CreatedBy,
	}
}

// ToCaseResponse converts a domain.Case to CaseResponse DTO.
func ToCaseResponse(c *domain.Case) CaseResponse {
	return CaseResponse{
		CaseID:     c.CaseID,
		CaseNumber: c.CaseNumber,
		ClientID:   c.ClientID,
		Title:      c.Title,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
		CreatedBy:  c.CreatedBy,
	}
}

// ToBankAccountResponse converts a domain.BankAccount to BankAccountResponse DTO.
func ToBankAccountResponse(a *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:   a.BankAccountID,
		Name:            a.Name,
		AccountNumber:   a.AccountNumber,
		NextCheckNumber: a.NextCheckNumber,
		IsActive:        a.IsActive,
		LastUpdatedAt:   a.LastUpdatedAt,
	}
}
