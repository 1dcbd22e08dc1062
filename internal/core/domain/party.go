package domain

import (
	"strings"
)

// Client is a party whose trust money the firm holds. Its balance is always derived.
type Client struct {
	ClientID     string `json:"clientID"`
	ClientNumber int64  `json:"clientNumber"` // Allocated monotonically, never reused
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// Case is a matter owned by exactly one client.
type Case struct {
	CaseID     string `json:"caseID"`
	CaseNumber int64  `json:"caseNumber"`
	ClientID   string `json:"clientID"`
	Title      string `json:"title"`
	IsActive   bool   `json:"isActive"`
	AuditFields
}

// Vendor is a payee of withdrawals. LinkedClientID is set only when the payee name matched a
// client's name exactly at import time.
type Vendor struct {
	VendorID       string  `json:"vendorID"`
	Name           string  `json:"name"`
	LinkedClientID *string `json:"linkedClientID,omitempty"`
	AuditFields
}

// BankAccount is a trust bank account. NextCheckNumber mirrors the sequencer counter and may be
// edited by hand.
type BankAccount struct {
	BankAccountID   string `json:"bankAccountID"`
	Name            string `json:"name"`
	AccountNumber   string `json:"accountNumber"`
	NextCheckNumber int64  `json:"nextCheckNumber"`
	IsActive        bool   `json:"isActive"`
	AuditFields
}

// Sequence names for monotonic numbering.
const (
	SequenceClientNumber = "client_number"
	SequenceCaseNumber   = "case_number"
)

// NormalizeName folds a party name for identity matching: trimmed, single-spaced, lower case.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
