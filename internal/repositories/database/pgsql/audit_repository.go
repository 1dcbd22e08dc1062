package pgsql

import (
	"context"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/models"
	"github.com/SscSPs/trust_ledger_app/internal/utils/mapping"
)

// InsertAuditRecord appends one audit record. Rows are never updated or deleted.
func (r *BaseRepository) InsertAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	m := mapping.ToModelAuditRecord(record)
	query := `
		INSERT INTO audit_records (
			audit_id, entry_id, action, severity, actor, client_ip, reason,
			old_amount, new_amount, old_status, new_status, old_values, new_values, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.DB.Exec(ctx, query,
		m.AuditID,
		m.EntryID,
		m.Action,
		m.Severity,
		m.Actor,
		m.ClientIP,
		m.Reason,
		m.OldAmount,
		m.NewAmount,
		m.OldStatus,
		m.NewStatus,
		m.OldValues,
		m.NewValues,
		m.CreatedAt,
	)
	if err != nil {
		return mapError(err, "insert audit record for entry "+record.EntryID)
	}
	return nil
}

// ListAuditRecordsByEntryID returns an entry's history oldest first.
func (r *BaseRepository) ListAuditRecordsByEntryID(ctx context.Context, entryID string) ([]domain.AuditRecord, error) {
	query := `
		SELECT audit_id, entry_id, action, severity, actor, client_ip, reason,
		       old_amount, new_amount, old_status, new_status, old_values, new_values, created_at
		FROM audit_records
		WHERE entry_id = $1
		ORDER BY created_at, seq;
	`
	rows, err := r.DB.Query(ctx, query, entryID)
	if err != nil {
		return nil, mapError(err, "list audit records for entry "+entryID)
	}
	defer rows.Close()

	ms := []models.AuditRecord{}
	for rows.Next() {
		var m models.AuditRecord
		err := rows.Scan(
			&m.AuditID,
			&m.EntryID,
			&m.Action,
			&m.Severity,
			&m.Actor,
			&m.ClientIP,
			&m.Reason,
			&m.OldAmount,
			&m.NewAmount,
			&m.OldStatus,
			&m.NewStatus,
			&m.OldValues,
			&m.NewValues,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, mapError(err, "scan audit record row")
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate audit record rows")
	}
	return mapping.ToDomainAuditRecordSlice(ms), nil
}
