package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// Actor identifies who performs a ledger operation and from where.
// It is resolved by the transport layer (JWT subject, client IP) and passed explicitly.
type Actor struct {
	UserID            string `json:"userID"`
	ClientIP          string `json:"clientIP"`
	CanApproveImports bool   `json:"canApproveImports"`
}
