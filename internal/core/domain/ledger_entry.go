package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction says which way money moves for a ledger entry. Amounts are always positive.
type Direction string

const (
	Deposit     Direction = "DEPOSIT"
	Withdrawal  Direction = "WITHDRAWAL"
	TransferIn  Direction = "TRANSFER_IN"
	TransferOut Direction = "TRANSFER_OUT"
	Fee         Direction = "FEE"
	Interest    Direction = "INTEREST"
)

// Directions lists every valid direction.
var Directions = []Direction{Deposit, Withdrawal, TransferIn, TransferOut, Fee, Interest}

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	for _, known := range Directions {
		if d == known {
			return true
		}
	}
	return false
}

// IsCredit reports whether the direction adds to a balance.
func (d Direction) IsCredit() bool {
	return d == Deposit || d == TransferIn || d == Interest
}

// IsDebit reports whether the direction subtracts from a balance.
func (d Direction) IsDebit() bool {
	return d == Withdrawal || d == TransferOut || d == Fee
}

// RequiresClientAndCase reports whether an entry with this direction must name both owners.
func (d Direction) RequiresClientAndCase() bool {
	return d == Withdrawal || d == TransferOut
}

// EntryStatus is the lifecycle state of a ledger entry.
type EntryStatus string

const (
	Pending EntryStatus = "PENDING"
	Cleared EntryStatus = "CLEARED"
	Voided  EntryStatus = "VOIDED"
)

// IsFrozen reports whether ordinary field edits are blocked (description excepted).
func (s EntryStatus) IsFrozen() bool {
	return s == Cleared || s == Voided
}

// CanTransitionTo reports whether the state machine allows moving from s to next.
// CLEARED may still be voided; that path is audited with high severity.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	switch s {
	case Pending:
		return next == Cleared || next == Voided
	case Cleared:
		return next == Voided
	default:
		return false
	}
}

// Entry field names, used for frozen-field reporting and audit value maps.
const (
	FieldBankAccountID   = "bank_account_id"
	FieldClientID        = "client_id"
	FieldCaseID          = "case_id"
	FieldVendorID        = "vendor_id"
	FieldAmount          = "amount"
	FieldDirection       = "direction"
	FieldTransactionDate = "transaction_date"
	FieldPostDate        = "post_date"
	FieldStatus          = "status"
	FieldPayee           = "payee"
	FieldReference       = "reference"
	FieldDescription     = "description"
	FieldClearedDate     = "cleared_date"
	FieldVoidReason      = "void_reason"
)

const dateLayout = "2006-01-02"

// LedgerEntry is one money movement against a trust bank account.
type LedgerEntry struct {
	EntryID         string          `json:"entryID"`
	BankAccountID   string          `json:"bankAccountID"`
	ClientID        *string         `json:"clientID,omitempty"`
	CaseID          *string         `json:"caseID,omitempty"`
	VendorID        *string         `json:"vendorID,omitempty"`
	Amount          decimal.Decimal `json:"amount"` // Always positive, 2 fraction digits
	Direction       Direction       `json:"direction"`
	TransactionDate time.Time       `json:"transactionDate"`
	PostDate        *time.Time      `json:"postDate,omitempty"`
	ClearedDate     *time.Time      `json:"clearedDate,omitempty"`
	Status          EntryStatus     `json:"status"`
	Payee           string          `json:"payee"`
	Reference       string          `json:"reference"` // Check number or external reference
	Description     string          `json:"description"`
	ImportBatchID   *string         `json:"importBatchID,omitempty"`
	VoidedAt        *time.Time      `json:"voidedAt,omitempty"`
	VoidedBy        *string         `json:"voidedBy,omitempty"`
	VoidReason      *string         `json:"voidReason,omitempty"`
	AuditFields
}

// SignedAmount is the entry's contribution to a balance, ignoring status.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction.IsDebit() {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Contribution is the entry's effect on book balance: voided entries contribute nothing.
func (e LedgerEntry) Contribution() decimal.Decimal {
	if e.Status == Voided {
		return decimal.Zero
	}
	return e.SignedAmount()
}

// BelongsTo reports whether the entry is scoped to the given entity.
func (e LedgerEntry) BelongsTo(scope BalanceScope, id string) bool {
	switch scope {
	case ScopeClient:
		return e.ClientID != nil && *e.ClientID == id
	case ScopeCase:
		return e.CaseID != nil && *e.CaseID == id
	case ScopeBankAccount:
		return e.BankAccountID == id
	}
	return false
}

// Snapshot renders the entry as a flat string map for audit old/new values.
func (e LedgerEntry) Snapshot() map[string]string {
	return map[string]string{
		FieldBankAccountID:   e.BankAccountID,
		FieldClientID:        derefString(e.ClientID),
		FieldCaseID:          derefString(e.CaseID),
		FieldVendorID:        derefString(e.VendorID),
		FieldAmount:          e.Amount.StringFixed(2),
		FieldDirection:       string(e.Direction),
		FieldTransactionDate: e.TransactionDate.Format(dateLayout),
		FieldPostDate:        formatDate(e.PostDate),
		FieldClearedDate:     formatDate(e.ClearedDate),
		FieldStatus:          string(e.Status),
		FieldPayee:           e.Payee,
		FieldReference:       e.Reference,
		FieldDescription:     e.Description,
		FieldVoidReason:      derefString(e.VoidReason),
	}
}

// ChangedFields returns the editable fields that differ between e and next, in a stable order.
// Status, cleared date and void metadata are excluded: they only move through transitions.
func (e LedgerEntry) ChangedFields(next LedgerEntry) []string {
	var changed []string
	if e.BankAccountID != next.BankAccountID {
		changed = append(changed, FieldBankAccountID)
	}
	if derefString(e.ClientID) != derefString(next.ClientID) {
		changed = append(changed, FieldClientID)
	}
	if derefString(e.CaseID) != derefString(next.CaseID) {
		changed = append(changed, FieldCaseID)
	}
	if derefString(e.VendorID) != derefString(next.VendorID) {
		changed = append(changed, FieldVendorID)
	}
	if !e.Amount.Equal(next.Amount) {
		changed = append(changed, FieldAmount)
	}
	if e.Direction != next.Direction {
		changed = append(changed, FieldDirection)
	}
	if !sameDay(e.TransactionDate, next.TransactionDate) {
		changed = append(changed, FieldTransactionDate)
	}
	if formatDate(e.PostDate) != formatDate(next.PostDate) {
		changed = append(changed, FieldPostDate)
	}
	if e.Payee != next.Payee {
		changed = append(changed, FieldPayee)
	}
	if e.Reference != next.Reference {
		changed = append(changed, FieldReference)
	}
	if e.Description != next.Description {
		changed = append(changed, FieldDescription)
	}
	return changed
}

// EntryFilter narrows ledger entry listings. Empty fields are ignored.
type EntryFilter struct {
	BankAccountID string
	ClientID      string
	CaseID        string
	Status        EntryStatus
}

// Matches reports whether e passes the filter.
func (f EntryFilter) Matches(e LedgerEntry) bool {
	if f.BankAccountID != "" && e.BankAccountID != f.BankAccountID {
		return false
	}
	if f.ClientID != "" && derefString(e.ClientID) != f.ClientID {
		return false
	}
	if f.CaseID != "" && derefString(e.CaseID) != f.CaseID {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	return true
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func sameDay(a, b time.Time) bool {
	return a.Format(dateLayout) == b.Format(dateLayout)
}
