package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories. Every repository method
// is defined on it so the same code runs against the pool or inside a transaction.
type BaseRepository struct {
	DB DBTX
}

// mapError translates driver errors into application errors. Lock timeouts and unique
// violations keep their sentinel so callers can branch on them.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable:
			return fmt.Errorf("%w: %s", apperrors.ErrLockTimeout, op)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, op)
		}
	}
	return apperrors.NewAppError(500, "failed to "+op, err)
}

// findError is mapError for single-row lookups.
func findError(err error, subject string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(subject)
	}
	return mapError(err, "find "+subject)
}

// execBatch sends b and surfaces the first failing statement.
func (r *BaseRepository) execBatch(ctx context.Context, b *pgx.Batch, op string) error {
	if b.Len() == 0 {
		return nil
	}
	br := r.DB.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return mapError(err, op)
		}
	}
	return mapError(br.Close(), op)
}
