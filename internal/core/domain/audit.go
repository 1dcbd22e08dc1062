package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AuditAction is the kind of mutation an audit record captures.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditVoid   AuditAction = "VOID"
	AuditClear  AuditAction = "CLEAR"
)

// AuditSeverity flags records that need administrative attention.
type AuditSeverity string

const (
	SeverityNormal AuditSeverity = "NORMAL"
	SeverityHigh   AuditSeverity = "HIGH"
)

// AuditRecord is an append-only row describing one mutation of a ledger entry.
type AuditRecord struct {
	AuditID   string            `json:"auditID"`
	EntryID   string            `json:"entryID"`
	Action    AuditAction       `json:"action"`
	Severity  AuditSeverity     `json:"severity"`
	Actor     string            `json:"actor"`
	ClientIP  string            `json:"clientIP"`
	Reason    string            `json:"reason"`
	OldAmount *decimal.Decimal  `json:"oldAmount,omitempty"`
	NewAmount *decimal.Decimal  `json:"newAmount,omitempty"`
	OldStatus *EntryStatus      `json:"oldStatus,omitempty"`
	NewStatus *EntryStatus      `json:"newStatus,omitempty"`
	OldValues map[string]string `json:"oldValues,omitempty"`
	NewValues map[string]string `json:"newValues,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// FieldChange is one old/new pair from an audit record.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Changes diffs the old and new value maps, sorted by field name.
func (r AuditRecord) Changes() []FieldChange {
	fields := make(map[string]struct{}, len(r.NewValues))
	for k := range r.OldValues {
		fields[k] = struct{}{}
	}
	for k := range r.NewValues {
		fields[k] = struct{}{}
	}
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	var changes []FieldChange
	for _, name := range names {
		oldVal, newVal := r.OldValues[name], r.NewValues[name]
		if oldVal == newVal {
			continue
		}
		changes = append(changes, FieldChange{Field: name, Old: oldVal, New: newVal})
	}
	return changes
}

// ChangesSummary renders Changes as "field: old -> new; ...". Creation records list the
// initial values as "field: value".
func (r AuditRecord) ChangesSummary() string {
	changes := r.Changes()
	if len(changes) == 0 {
		return "no field changes"
	}
	parts := make([]string, len(changes))
	for i, c := range changes {
		if r.Action == AuditCreate {
			parts[i] = fmt.Sprintf("%s: %s", c.Field, c.New)
			continue
		}
		parts[i] = fmt.Sprintf("%s: %s -> %s", c.Field, displayValue(c.Old), displayValue(c.New))
	}
	return strings.Join(parts, "; ")
}

func displayValue(v string) string {
	if v == "" {
		return "(empty)"
	}
	return v
}

// NewAuditRecord captures the transition from before to after. before is nil on create.
func NewAuditRecord(action AuditAction, before *LedgerEntry, after LedgerEntry, actor Actor, reason string, at time.Time) AuditRecord {
	rec := AuditRecord{
		EntryID:   after.EntryID,
		Action:    action,
		Severity:  SeverityNormal,
		Actor:     actor.UserID,
		ClientIP:  actor.ClientIP,
		Reason:    reason,
		NewValues: after.Snapshot(),
		CreatedAt: at,
	}
	newAmount := after.Amount
	newStatus := after.Status
	rec.NewAmount = &newAmount
	rec.NewStatus = &newStatus
	if before != nil {
		oldAmount := before.Amount
		oldStatus := before.Status
		rec.OldAmount = &oldAmount
		rec.OldStatus = &oldStatus
		rec.OldValues = before.Snapshot()
	}
	return rec
}
