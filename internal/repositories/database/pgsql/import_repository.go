package pgsql

import (
	"context"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/models"
	"github.com/SscSPs/trust_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const batchColumns = `batch_id, bank_account_id, status, created_by, created_at, reviewed_by, reviewed_at,
	rejection_reason, total_rows, staged_rows, row_errors, counts`

// SaveBatch inserts a new import batch.
func (r *BaseRepository) SaveBatch(ctx context.Context, batch domain.ImportBatch) error {
	m := mapping.ToModelImportBatch(batch)
	query := `INSERT INTO import_batches (` + batchColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.DB.Exec(ctx, query,
		m.BatchID,
		m.BankAccountID,
		m.Status,
		m.CreatedBy,
		m.CreatedAt,
		m.ReviewedBy,
		m.ReviewedAt,
		m.RejectionReason,
		m.TotalRows,
		m.StagedRows,
		m.RowErrors,
		m.Counts,
	)
	if err != nil {
		return mapError(err, "insert import batch "+batch.BatchID)
	}
	return nil
}

func (r *BaseRepository) findBatch(ctx context.Context, batchID string, forUpdate bool) (*domain.ImportBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM import_batches WHERE batch_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var m models.ImportBatch
	err := r.DB.QueryRow(ctx, query, batchID).Scan(
		&m.BatchID,
		&m.BankAccountID,
		&m.Status,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.ReviewedBy,
		&m.ReviewedAt,
		&m.RejectionReason,
		&m.TotalRows,
		&m.StagedRows,
		&m.RowErrors,
		&m.Counts,
	)
	if err != nil {
		return nil, findError(err, "import batch "+batchID)
	}
	batch := mapping.ToDomainImportBatch(m)
	return &batch, nil
}

func (r *BaseRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.ImportBatch, error) {
	return r.findBatch(ctx, batchID, false)
}

// FindBatchByIDForUpdate row-locks the batch; concurrent reviewers serialise on it.
func (r *BaseRepository) FindBatchByIDForUpdate(ctx context.Context, batchID string) (*domain.ImportBatch, error) {
	return r.findBatch(ctx, batchID, true)
}

// UpdateBatch records a batch's review outcome.
func (r *BaseRepository) UpdateBatch(ctx context.Context, batch domain.ImportBatch) error {
	m := mapping.ToModelImportBatch(batch)
	query := `
		UPDATE import_batches
		SET status = $2, reviewed_by = $3, reviewed_at = $4, rejection_reason = $5,
		    staged_rows = $6, row_errors = $7, counts = $8
		WHERE batch_id = $1;
	`
	tag, err := r.DB.Exec(ctx, query, m.BatchID, m.Status, m.ReviewedBy, m.ReviewedAt, m.RejectionReason,
		m.StagedRows, m.RowErrors, m.Counts)
	if err != nil {
		return mapError(err, "update import batch "+batch.BatchID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("import batch " + batch.BatchID)
	}
	return nil
}

// SaveStaged inserts staging rows parents first so foreign keys resolve within the batch.
func (r *BaseRepository) SaveStaged(ctx context.Context, staged domain.StagedBatch) error {
	b := &pgx.Batch{}
	for _, c := range staged.Clients {
		b.Queue(`INSERT INTO staging_clients (staging_client_id, import_batch_id, name, email) VALUES ($1, $2, $3, $4);`,
			c.StagingClientID, c.ImportBatchID, c.Name, c.Email)
	}
	for _, c := range staged.Cases {
		b.Queue(`INSERT INTO staging_cases (staging_case_id, import_batch_id, staging_client_id, title) VALUES ($1, $2, $3, $4);`,
			c.StagingCaseID, c.ImportBatchID, c.StagingClientID, c.Title)
	}
	for _, e := range staged.Entries {
		b.Queue(`
			INSERT INTO staging_ledger_entries (
				staging_entry_id, import_batch_id, row_number, staging_client_id, staging_case_id,
				amount, direction, transaction_date, payee, reference, description
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
			e.StagingEntryID, e.ImportBatchID, e.RowNumber, e.StagingClientID, e.StagingCaseID,
			e.Amount, string(e.Direction), e.TransactionDate, e.Payee, e.Reference, e.Description)
	}
	return r.execBatch(ctx, b, "insert staging rows")
}

// FindStaged loads every staging row of a batch. Clients and cases come back in the order they
// were saved, entries in row order.
func (r *BaseRepository) FindStaged(ctx context.Context, batchID string) (*domain.StagedBatch, error) {
	staged := &domain.StagedBatch{}

	rows, err := r.DB.Query(ctx, `
		SELECT staging_client_id, import_batch_id, name, email
		FROM staging_clients WHERE import_batch_id = $1 ORDER BY staged_seq;`, batchID)
	if err != nil {
		return nil, mapError(err, "find staging clients for batch "+batchID)
	}
	staged.Clients, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StagingClient, error) {
		var c domain.StagingClient
		err := row.Scan(&c.StagingClientID, &c.ImportBatchID, &c.Name, &c.Email)
		return c, err
	})
	if err != nil {
		return nil, mapError(err, "scan staging clients")
	}

	rows, err = r.DB.Query(ctx, `
		SELECT staging_case_id, import_batch_id, staging_client_id, title
		FROM staging_cases WHERE import_batch_id = $1 ORDER BY staged_seq;`, batchID)
	if err != nil {
		return nil, mapError(err, "find staging cases for batch "+batchID)
	}
	staged.Cases, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StagingCase, error) {
		var c domain.StagingCase
		err := row.Scan(&c.StagingCaseID, &c.ImportBatchID, &c.StagingClientID, &c.Title)
		return c, err
	})
	if err != nil {
		return nil, mapError(err, "scan staging cases")
	}

	rows, err = r.DB.Query(ctx, `
		SELECT staging_entry_id, import_batch_id, row_number, staging_client_id, staging_case_id,
		       amount, direction, transaction_date, payee, reference, description
		FROM staging_ledger_entries WHERE import_batch_id = $1 ORDER BY row_number;`, batchID)
	if err != nil {
		return nil, mapError(err, "find staging entries for batch "+batchID)
	}
	staged.Entries, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StagingLedgerEntry, error) {
		var (
			e         domain.StagingLedgerEntry
			direction string
		)
		err := row.Scan(&e.StagingEntryID, &e.ImportBatchID, &e.RowNumber, &e.StagingClientID, &e.StagingCaseID,
			&e.Amount, &direction, &e.TransactionDate, &e.Payee, &e.Reference, &e.Description)
		e.Direction = domain.Direction(direction)
		return e, err
	})
	if err != nil {
		return nil, mapError(err, "scan staging entries")
	}
	return staged, nil
}

// DeleteStaged removes a batch's staging rows once it is resolved.
func (r *BaseRepository) DeleteStaged(ctx context.Context, batchID string) error {
	b := &pgx.Batch{}
	b.Queue(`DELETE FROM staging_ledger_entries WHERE import_batch_id = $1;`, batchID)
	b.Queue(`DELETE FROM staging_cases WHERE import_batch_id = $1;`, batchID)
	b.Queue(`DELETE FROM staging_clients WHERE import_batch_id = $1;`, batchID)
	return r.execBatch(ctx, b, "delete staging rows for batch "+batchID)
}
