package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/trust_ledger_app/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the Postgres implementation of portsrepo.Store.
type Store struct {
	BaseRepository
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// txStore binds every repository to one pgx.Tx.
type txStore struct {
	BaseRepository
}

var (
	_ portsrepo.Store   = (*Store)(nil)
	_ portsrepo.TxStore = (*txStore)(nil)
)

// NewStore wraps pool. lockTimeout bounds every row-lock wait inside WithTx; zero leaves the
// server default in place.
func NewStore(pool *pgxpool.Pool, lockTimeout time.Duration) *Store {
	return &Store{
		BaseRepository: BaseRepository{DB: pool},
		pool:           pool,
		lockTimeout:    lockTimeout,
	}
}

// WithTx runs fn in a transaction, committing when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxStore) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			middleware.GetLoggerFromCtx(ctx).Error("failed to roll back transaction", "error", rbErr)
		}
	}()

	if s.lockTimeout > 0 {
		setting := fmt.Sprintf("%dms", s.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", setting); err != nil {
			return apperrors.NewAppError(500, "failed to set lock timeout", err)
		}
	}

	if err := fn(ctx, &txStore{BaseRepository: BaseRepository{DB: tx}}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}
