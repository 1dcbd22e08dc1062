package services

import (
	"context"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/notify"
)

const defaultMaxCheckAllocation = 500

// Options carries the configuration the core services need. It is passed explicitly instead of
// being read from globals.
type Options struct {
	// MaxCheckAllocation caps a single check number allocation.
	MaxCheckAllocation int
	// Notifier receives import outcome notifications. Defaults to notify.LogNotifier.
	Notifier notify.Notifier
	// Now is the service clock. Defaults to time.Now in UTC.
	Now func() time.Time
	// AfterClientCreated hooks run after a client has been committed.
	AfterClientCreated []func(ctx context.Context, client domain.Client) error
}

func (o Options) withDefaults() Options {
	if o.MaxCheckAllocation <= 0 {
		o.MaxCheckAllocation = defaultMaxCheckAllocation
	}
	if o.Notifier == nil {
		o.Notifier = notify.LogNotifier{}
	}
	return o
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(store portsrepo.Store, opts Options) *portssvc.ServiceContainer {
	opts = opts.withDefaults()

	return &portssvc.ServiceContainer{
		Ledger:  NewLedgerService(store, opts),
		Balance: NewBalanceService(store, opts),
		Audit:   NewAuditService(store, opts),
		Checks:  NewCheckSequencer(store, opts),
		Imports: NewImportService(store, opts),
		Parties: NewPartyService(store, opts),
	}
}
