package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditRecord is a row of audit_records. The value maps are stored as JSONB.
type AuditRecord struct {
	AuditID   string            `db:"audit_id"`
	EntryID   string            `db:"entry_id"`
	Action    string            `db:"action"`
	Severity  string            `db:"severity"`
	Actor     string            `db:"actor"`
	ClientIP  string            `db:"client_ip"`
	Reason    string            `db:"reason"`
	OldAmount *decimal.Decimal  `db:"old_amount"`
	NewAmount *decimal.Decimal  `db:"new_amount"`
	OldStatus *string           `db:"old_status"`
	NewStatus *string           `db:"new_status"`
	OldValues map[string]string `db:"old_values"`
	NewValues map[string]string `db:"new_values"`
	CreatedAt time.Time         `db:"created_at"`
}
