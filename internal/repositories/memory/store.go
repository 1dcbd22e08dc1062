// Package memory provides an in-process implementation of the repository ports for tests.
// Transactions are serialised behind a single slot, which is a coarser lock than the Postgres
// row locks but gives the same guarantees.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
)

const defaultLockTimeout = 5 * time.Second

type data struct {
	entries      map[string]domain.LedgerEntry
	clients      map[string]domain.Client
	cases        map[string]domain.Case
	vendors      map[string]domain.Vendor
	bankAccounts map[string]domain.BankAccount
	sequences    map[string]int64
	audit        []domain.AuditRecord
	counters     map[string]domain.CheckSequenceCounter
	batches      map[string]domain.ImportBatch
	staged       map[string]domain.StagedBatch
}

func newData() *data {
	return &data{
		entries:      make(map[string]domain.LedgerEntry),
		clients:      make(map[string]domain.Client),
		cases:        make(map[string]domain.Case),
		vendors:      make(map[string]domain.Vendor),
		bankAccounts: make(map[string]domain.BankAccount),
		sequences:    make(map[string]int64),
		counters:     make(map[string]domain.CheckSequenceCounter),
		batches:      make(map[string]domain.ImportBatch),
		staged:       make(map[string]domain.StagedBatch),
	}
}

func (d *data) clone() *data {
	c := &data{
		entries:      make(map[string]domain.LedgerEntry, len(d.entries)),
		clients:      make(map[string]domain.Client, len(d.clients)),
		cases:        make(map[string]domain.Case, len(d.cases)),
		vendors:      make(map[string]domain.Vendor, len(d.vendors)),
		bankAccounts: make(map[string]domain.BankAccount, len(d.bankAccounts)),
		sequences:    make(map[string]int64, len(d.sequences)),
		audit:        append([]domain.AuditRecord(nil), d.audit...),
		counters:     make(map[string]domain.CheckSequenceCounter, len(d.counters)),
		batches:      make(map[string]domain.ImportBatch, len(d.batches)),
		staged:       make(map[string]domain.StagedBatch, len(d.staged)),
	}
	for k, v := range d.entries {
		c.entries[k] = v
	}
	for k, v := range d.clients {
		c.clients[k] = v
	}
	for k, v := range d.cases {
		c.cases[k] = v
	}
	for k, v := range d.vendors {
		c.vendors[k] = v
	}
	for k, v := range d.bankAccounts {
		c.bankAccounts[k] = v
	}
	for k, v := range d.sequences {
		c.sequences[k] = v
	}
	for k, v := range d.counters {
		c.counters[k] = v
	}
	for k, v := range d.batches {
		c.batches[k] = v
	}
	for k, v := range d.staged {
		c.staged[k] = v
	}
	return c
}

// hooks lets tests simulate store failures.
type hooks struct {
	mu         sync.Mutex
	auditErr   error
	auditCalls int
}

func (h *hooks) auditFailure() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.auditCalls++
	return h.auditErr
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout bounds how long WithTx waits for the transaction slot.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.lockTimeout = d
	}
}

// Store is a transactional in-memory store.
type Store struct {
	*view
	mu          sync.RWMutex
	slot        chan struct{}
	lockTimeout time.Duration
	hooks       *hooks
}

var _ portsrepo.Store = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		slot:        make(chan struct{}, 1),
		lockTimeout: defaultLockTimeout,
		hooks:       &hooks{},
	}
	s.view = &view{d: newData(), mu: &s.mu, hooks: s.hooks}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailAuditWrites makes every subsequent audit insert fail with err. Pass nil to recover.
func (s *Store) FailAuditWrites(err error) {
	s.hooks.mu.Lock()
	defer s.hooks.mu.Unlock()
	s.hooks.auditErr = err
}

// WithTx runs fn against a private copy of the data and publishes it only on success.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.TxStore) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer func() { <-s.slot }()

	s.mu.RLock()
	working := s.view.d.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &view{d: working, hooks: s.hooks}); err != nil {
		return err
	}

	s.mu.Lock()
	*s.view.d = *working
	s.mu.Unlock()
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case s.slot <- struct{}{}:
		return nil
	case <-timer.C:
		return apperrors.ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
