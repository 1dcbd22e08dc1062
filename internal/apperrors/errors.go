package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller lacks the capability required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrCompliance is the parent of every trust-accounting rule violation.
var ErrCompliance = errors.New("compliance violation")

// ErrInsufficientFunds indicates a debit would drive a client or case balance negative.
var ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrCompliance)

var (
	ErrFrozenEntry       = errors.New("ledger entry is frozen")
	ErrAlreadyVoided     = errors.New("ledger entry already voided")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyResolved   = errors.New("import batch already resolved")
	ErrDualControl       = errors.New("dual control violation")
	ErrAuditWrite        = errors.New("audit record could not be written")
)

// ErrLockTimeout is returned by repositories when a row lock could not be acquired in time.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// ErrSequencerBusy indicates check-number allocation lost a lock race. Retryable.
var ErrSequencerBusy = fmt.Errorf("%w: check sequencer busy", ErrLockTimeout)

// AppError carries an HTTP-ish code and the underlying cause for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error that matches ErrNotFound.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationError reports per-field problems with caller input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a problem for field. Later messages for the same field are ignored.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InsufficientFundsError names the entity whose balance would go negative.
type InsufficientFundsError struct {
	EntityKind string // "client" or "case"
	EntityID   string
	Available  decimal.Decimal
	Requested  decimal.Decimal
	Shortfall  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in %s %s: available %s, requested %s, shortfall %s",
		e.EntityKind, e.EntityID, e.Available.StringFixed(2), e.Requested.StringFixed(2), e.Shortfall.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// FrozenEntryError lists the fields a caller tried to change on a cleared or voided entry.
type FrozenEntryError struct {
	EntryID string
	Status  string
	Fields  []string
}

func (e *FrozenEntryError) Error() string {
	return fmt.Sprintf("entry %s is %s; cannot change %s", e.EntryID, e.Status, strings.Join(e.Fields, ", "))
}

func (e *FrozenEntryError) Unwrap() error {
	return ErrFrozenEntry
}

// AlreadyVoidedError is returned when voiding an entry a second time.
type AlreadyVoidedError struct {
	EntryID  string
	VoidedBy string
}

func (e *AlreadyVoidedError) Error() string {
	return fmt.Sprintf("entry %s was already voided by %s", e.EntryID, e.VoidedBy)
}

func (e *AlreadyVoidedError) Unwrap() error {
	return ErrAlreadyVoided
}

// AlreadyResolvedError is returned when approving or rejecting a batch that left review.
type AlreadyResolvedError struct {
	BatchID string
	Status  string
}

func (e *AlreadyResolvedError) Error() string {
	return fmt.Sprintf("import batch %s is already %s", e.BatchID, e.Status)
}

func (e *AlreadyResolvedError) Unwrap() error {
	return ErrAlreadyResolved
}

// DualControlError is returned when the reviewer of a batch is its creator.
type DualControlError struct {
	BatchID string
	UserID  string
}

func (e *DualControlError) Error() string {
	return fmt.Sprintf("user %s created import batch %s and cannot review it", e.UserID, e.BatchID)
}

func (e *DualControlError) Unwrap() error {
	return ErrDualControl
}

// SequencerBusyError reports lock contention on a bank account's check counter.
type SequencerBusyError struct {
	BankAccountID string
	Err           error
}

func (e *SequencerBusyError) Error() string {
	return fmt.Sprintf("check sequencer for bank account %s is busy, retry the allocation", e.BankAccountID)
}

func (e *SequencerBusyError) Unwrap() []error {
	return []error{ErrSequencerBusy, e.Err}
}

// AuditWriteError aborts the enclosing operation when the audit trail cannot be persisted.
type AuditWriteError struct {
	EntryID string
	Action  string
	Err     error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("failed to write %s audit record for entry %s: %v", e.Action, e.EntryID, e.Err)
}

func (e *AuditWriteError) Unwrap() []error {
	return []error{ErrAuditWrite, e.Err}
}

// IsRetryable reports whether the caller may retry the whole operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout)
}
