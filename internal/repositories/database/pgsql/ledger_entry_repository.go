package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/models"
	"github.com/SscSPs/trust_ledger_app/internal/utils/mapping"
	"github.com/SscSPs/trust_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const entryColumns = `entry_id, bank_account_id, client_id, case_id, vendor_id, amount, direction,
	transaction_date, post_date, cleared_date, status, payee, reference, description,
	import_batch_id, voided_at, voided_by, void_reason,
	created_at, created_by, last_updated_at, last_updated_by`

const insertEntryQuery = `
	INSERT INTO ledger_entries (` + entryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
`

func scanEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.BankAccountID,
		&m.ClientID,
		&m.CaseID,
		&m.VendorID,
		&m.Amount,
		&m.Direction,
		&m.TransactionDate,
		&m.PostDate,
		&m.ClearedDate,
		&m.Status,
		&m.Payee,
		&m.Reference,
		&m.Description,
		&m.ImportBatchID,
		&m.VoidedAt,
		&m.VoidedBy,
		&m.VoidReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func entryArgs(m models.LedgerEntry) []any {
	return []any{
		m.EntryID,
		m.BankAccountID,
		m.ClientID,
		m.CaseID,
		m.VendorID,
		m.Amount,
		m.Direction,
		m.TransactionDate,
		m.PostDate,
		m.ClearedDate,
		m.Status,
		m.Payee,
		m.Reference,
		m.Description,
		m.ImportBatchID,
		m.VoidedAt,
		m.VoidedBy,
		m.VoidReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func (r *BaseRepository) findEntry(ctx context.Context, entryID string, forUpdate bool) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE entry_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanEntry(r.DB.QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, findError(err, "ledger entry "+entryID)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// FindEntryByID retrieves a ledger entry by its ID.
func (r *BaseRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	return r.findEntry(ctx, entryID, false)
}

// FindEntryByIDForUpdate retrieves and row-locks a ledger entry.
func (r *BaseRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	return r.findEntry(ctx, entryID, true)
}

// ListEntries pages through entries newest first using keyset pagination.
func (r *BaseRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, vals ...any) {
		placeholders := make([]any, len(vals))
		for i, v := range vals {
			args = append(args, v)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, fmt.Sprintf(cond, placeholders...))
	}

	if filter.BankAccountID != "" {
		add("bank_account_id = %s", filter.BankAccountID)
	}
	if filter.ClientID != "" {
		add("client_id = %s", filter.ClientID)
	}
	if filter.CaseID != "" {
		add("case_id = %s", filter.CaseID)
	}
	if filter.Status != "" {
		add("status = %s", string(filter.Status))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		add("(transaction_date, created_at, entry_id) < (%s, %s, %s)", cursor.Date, cursor.CreatedAt, cursor.ID)
	}

	query := `SELECT ` + entryColumns + ` FROM ledger_entries`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY transaction_date DESC, created_at DESC, entry_id DESC LIMIT $%d`, len(args))

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapError(err, "list ledger entries")
	}
	defer rows.Close()

	ms := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, mapError(err, "scan ledger entry row")
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapError(err, "iterate ledger entry rows")
	}

	entries := mapping.ToDomainLedgerEntrySlice(ms)
	if len(entries) <= limit {
		return entries, nil, nil
	}
	page := entries[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.EntryID})
	return page, &token, nil
}

// SaveEntry inserts a new ledger entry.
func (r *BaseRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	if _, err := r.DB.Exec(ctx, insertEntryQuery, entryArgs(m)...); err != nil {
		return mapError(err, "insert ledger entry "+entry.EntryID)
	}
	return nil
}

// SaveEntries inserts entries in a single batch.
func (r *BaseRepository) SaveEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insertEntryQuery, entryArgs(mapping.ToModelLedgerEntry(e))...)
	}
	return r.execBatch(ctx, batch, "insert ledger entries")
}

// UpdateEntry overwrites the mutable columns of an entry.
func (r *BaseRepository) UpdateEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		UPDATE ledger_entries
		SET bank_account_id = $2, client_id = $3, case_id = $4, vendor_id = $5, amount = $6,
		    direction = $7, transaction_date = $8, post_date = $9, cleared_date = $10, status = $11,
		    payee = $12, reference = $13, description = $14, voided_at = $15, voided_by = $16,
		    void_reason = $17, last_updated_at = $18, last_updated_by = $19
		WHERE entry_id = $1;
	`
	tag, err := r.DB.Exec(ctx, query,
		m.EntryID,
		m.BankAccountID,
		m.ClientID,
		m.CaseID,
		m.VendorID,
		m.Amount,
		m.Direction,
		m.TransactionDate,
		m.PostDate,
		m.ClearedDate,
		m.Status,
		m.Payee,
		m.Reference,
		m.Description,
		m.VoidedAt,
		m.VoidedBy,
		m.VoidReason,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "update ledger entry "+entry.EntryID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("ledger entry " + entry.EntryID)
	}
	return nil
}
