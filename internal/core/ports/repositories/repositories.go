package repositories

import "context"

// TxStore is every repository bound to one unit of work.
type TxStore interface {
	LedgerEntryRepository
	BalanceRepository
	PartyRepository
	AuditRepository
	CheckSequenceRepository
	ImportRepository
}

// Store is the entry point services depend on. Reads may go straight to the Store; every
// mutation runs inside WithTx so that row locks, audit records and the mutation share a
// transaction.
type Store interface {
	TxStore

	// WithTx runs fn in a transaction. The transaction commits when fn returns nil and rolls
	// back otherwise. Lock waits are bounded; exceeding the bound yields apperrors.ErrLockTimeout.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error
}
