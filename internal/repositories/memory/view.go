package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/trust_ledger_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// view implements every repository over one data set. Inside a transaction mu is nil because
// the transaction owns its private copy.
type view struct {
	d     *data
	mu    *sync.RWMutex
	hooks *hooks
}

var _ portsrepo.TxStore = (*view)(nil)

func (v *view) rlock() func() {
	if v.mu == nil {
		return func() {}
	}
	v.mu.RLock()
	return v.mu.RUnlock
}

func (v *view) lock() func() {
	if v.mu == nil {
		return func() {}
	}
	v.mu.Lock()
	return v.mu.Unlock
}

// --- ledger entries ---

func (v *view) FindEntryByID(_ context.Context, entryID string) (*domain.LedgerEntry, error) {
	defer v.rlock()()
	e, ok := v.d.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger entry " + entryID)
	}
	return &e, nil
}

func (v *view) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	return v.FindEntryByID(ctx, entryID)
}

func (v *view) ListEntries(_ context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	defer v.rlock()()

	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		cursor = &c
	}

	matched := make([]domain.LedgerEntry, 0)
	for _, e := range v.d.entries {
		if !filter.Matches(e) {
			continue
		}
		if cursor != nil && !cursor.After(e.TransactionDate, e.CreatedAt, e.EntryID) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.After(b.TransactionDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.EntryID > b.EntryID
	})

	if len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.EntryID})
	return page, &token, nil
}

func (v *view) SaveEntry(_ context.Context, entry domain.LedgerEntry) error {
	defer v.lock()()
	if _, exists := v.d.entries[entry.EntryID]; exists {
		return apperrors.ErrDuplicate
	}
	v.d.entries[entry.EntryID] = entry
	return nil
}

func (v *view) SaveEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	for _, e := range entries {
		if err := v.SaveEntry(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (v *view) UpdateEntry(_ context.Context, entry domain.LedgerEntry) error {
	defer v.lock()()
	if _, exists := v.d.entries[entry.EntryID]; !exists {
		return apperrors.NewNotFoundError("ledger entry " + entry.EntryID)
	}
	v.d.entries[entry.EntryID] = entry
	return nil
}

// --- balances ---

func (v *view) SumBalance(_ context.Context, scope domain.BalanceScope, id string) (decimal.Decimal, error) {
	defer v.rlock()()
	total := decimal.Zero
	for _, e := range v.d.entries {
		if e.BelongsTo(scope, id) {
			total = total.Add(e.Contribution())
		}
	}
	return total, nil
}

func (v *view) SumBalances(_ context.Context, scope domain.BalanceScope, ids []string) (map[string]decimal.Decimal, error) {
	defer v.rlock()()
	totals := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		totals[id] = decimal.Zero
	}
	for _, e := range v.d.entries {
		for _, id := range ids {
			if e.BelongsTo(scope, id) {
				totals[id] = totals[id].Add(e.Contribution())
			}
		}
	}
	return totals, nil
}

// --- parties ---

func (v *view) SaveClient(_ context.Context, client domain.Client) error {
	defer v.lock()()
	if _, exists := v.d.clients[client.ClientID]; exists {
		return apperrors.ErrDuplicate
	}
	v.d.clients[client.ClientID] = client
	return nil
}

func (v *view) FindClientByID(_ context.Context, clientID string) (*domain.Client, error) {
	defer v.rlock()()
	c, ok := v.d.clients[clientID]
	if !ok {
		return nil, apperrors.NewNotFoundError("client " + clientID)
	}
	return &c, nil
}

func (v *view) FindClientByIDForUpdate(ctx context.Context, clientID string) (*domain.Client, error) {
	return v.FindClientByID(ctx, clientID)
}

func (v *view) FindClientsByNames(_ context.Context, names []string) (map[string]domain.Client, error) {
	defer v.rlock()()
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[domain.NormalizeName(n)] = struct{}{}
	}
	found := make(map[string]domain.Client)
	for _, c := range v.d.clients {
		key := domain.NormalizeName(c.Name)
		if _, ok := wanted[key]; !ok {
			continue
		}
		// Oldest client wins when names collide.
		if prev, ok := found[key]; ok && prev.ClientNumber < c.ClientNumber {
			continue
		}
		found[key] = c
	}
	return found, nil
}

func (v *view) SaveCase(_ context.Context, c domain.Case) error {
	defer v.lock()()
	if _, exists := v.d.cases[c.CaseID]; exists {
		return apperrors.ErrDuplicate
	}
	v.d.cases[c.CaseID] = c
	return nil
}

func (v *view) FindCaseByID(_ context.Context, caseID string) (*domain.Case, error) {
	defer v.rlock()()
	c, ok := v.d.cases[caseID]
	if !ok {
		return nil, apperrors.NewNotFoundError("case " + caseID)
	}
	return &c, nil
}

func (v *view) FindCaseByIDForUpdate(ctx context.Context, caseID string) (*domain.Case, error) {
	return v.FindCaseByID(ctx, caseID)
}

func (v *view) SaveVendor(_ context.Context, vendor domain.Vendor) error {
	defer v.lock()()
	if _, exists := v.d.vendors[vendor.VendorID]; exists {
		return apperrors.ErrDuplicate
	}
	v.d.vendors[vendor.VendorID] = vendor
	return nil
}

func (v *view) FindVendorByID(_ context.Context, vendorID string) (*domain.Vendor, error) {
	defer v.rlock()()
	vendor, ok := v.d.vendors[vendorID]
	if !ok {
		return nil, apperrors.NewNotFoundError("vendor " + vendorID)
	}
	return &vendor, nil
}

func (v *view) FindVendorsByNames(_ context.Context, names []string) (map[string]domain.Vendor, error) {
	defer v.rlock()()
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[domain.NormalizeName(n)] = struct{}{}
	}
	found := make(map[string]domain.Vendor)
	for _, vendor := range v.d.vendors {
		key := domain.NormalizeName(vendor.Name)
		if _, ok := wanted[key]; ok {
			found[key] = vendor
		}
	}
	return found, nil
}

func (v *view) SaveBankAccount(_ context.Context, account domain.BankAccount) error {
	defer v.lock()()
	if _, exists := v.d.bankAccounts[account.BankAccountID]; exists {
		return apperrors.ErrDuplicate
	}
	v.d.bankAccounts[account.BankAccountID] = account
	return nil
}

func (v *view) FindBankAccountByID(_ context.Context, bankAccountID string) (*domain.BankAccount, error) {
	defer v.rlock()()
	a, ok := v.d.bankAccounts[bankAccountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("bank account " + bankAccountID)
	}
	return &a, nil
}

func (v *view) FindBankAccountByIDForUpdate(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	return v.FindBankAccountByID(ctx, bankAccountID)
}

func (v *view) UpdateBankAccountNextCheckNumber(_ context.Context, bankAccountID string, next int64, userID string, at time.Time) error {
	defer v.lock()()
	a, ok := v.d.bankAccounts[bankAccountID]
	if !ok {
		return apperrors.NewNotFoundError("bank account " + bankAccountID)
	}
	a.NextCheckNumber = next
	a.LastUpdatedAt = at
	a.LastUpdatedBy = userID
	v.d.bankAccounts[bankAccountID] = a
	return nil
}

func (v *view) NextSequenceValue(_ context.Context, name string) (int64, error) {
	defer v.lock()()
	v.d.sequences[name]++
	return v.d.sequences[name], nil
}

// --- audit ---

func (v *view) InsertAuditRecord(_ context.Context, record domain.AuditRecord) error {
	if err := v.hooks.auditFailure(); err != nil {
		return err
	}
	defer v.lock()()
	v.d.audit = append(v.d.audit, record)
	return nil
}

func (v *view) ListAuditRecordsByEntryID(_ context.Context, entryID string) ([]domain.AuditRecord, error) {
	defer v.rlock()()
	records := make([]domain.AuditRecord, 0)
	for _, r := range v.d.audit {
		if r.EntryID == entryID {
			records = append(records, r)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// --- check sequence ---

func (v *view) FindCounterForUpdate(_ context.Context, bankAccountID string, seed int64) (*domain.CheckSequenceCounter, error) {
	defer v.lock()()
	c, ok := v.d.counters[bankAccountID]
	if !ok {
		c = domain.CheckSequenceCounter{BankAccountID: bankAccountID, NextCheckNumber: seed}
		v.d.counters[bankAccountID] = c
	}
	return &c, nil
}

func (v *view) SaveCounter(_ context.Context, counter domain.CheckSequenceCounter) error {
	defer v.lock()()
	v.d.counters[counter.BankAccountID] = counter
	return nil
}

// --- imports ---

func (v *view) SaveBatch(_ context.Context, batch domain.ImportBatch) error {
	defer v.lock()()
	if _, exists := v.d.batches[batch.BatchID]; exists {
		return apperrors.ErrDuplicate
	}
	v.d.batches[batch.BatchID] = batch
	return nil
}

func (v *view) FindBatchByID(_ context.Context, batchID string) (*domain.ImportBatch, error) {
	defer v.rlock()()
	b, ok := v.d.batches[batchID]
	if !ok {
		return nil, apperrors.NewNotFoundError("import batch " + batchID)
	}
	return &b, nil
}

func (v *view) FindBatchByIDForUpdate(ctx context.Context, batchID string) (*domain.ImportBatch, error) {
	return v.FindBatchByID(ctx, batchID)
}

func (v *view) UpdateBatch(_ context.Context, batch domain.ImportBatch) error {
	defer v.lock()()
	if _, exists := v.d.batches[batch.BatchID]; !exists {
		return apperrors.NewNotFoundError("import batch " + batch.BatchID)
	}
	v.d.batches[batch.BatchID] = batch
	return nil
}

func (v *view) SaveStaged(_ context.Context, staged domain.StagedBatch) error {
	defer v.lock()()
	batchID := stagedBatchID(staged)
	if batchID == "" {
		return nil
	}
	current := v.d.staged[batchID]
	current.Clients = append(append([]domain.StagingClient(nil), current.Clients...), staged.Clients...)
	current.Cases = append(append([]domain.StagingCase(nil), current.Cases...), staged.Cases...)
	current.Entries = append(append([]domain.StagingLedgerEntry(nil), current.Entries...), staged.Entries...)
	v.d.staged[batchID] = current
	return nil
}

func (v *view) FindStaged(_ context.Context, batchID string) (*domain.StagedBatch, error) {
	defer v.rlock()()
	staged := v.d.staged[batchID]
	return &domain.StagedBatch{
		Clients: append([]domain.StagingClient(nil), staged.Clients...),
		Cases:   append([]domain.StagingCase(nil), staged.Cases...),
		Entries: append([]domain.StagingLedgerEntry(nil), staged.Entries...),
	}, nil
}

func (v *view) DeleteStaged(_ context.Context, batchID string) error {
	defer v.lock()()
	delete(v.d.staged, batchID)
	return nil
}

func stagedBatchID(s domain.StagedBatch) string {
	switch {
	case len(s.Clients) > 0:
		return s.Clients[0].ImportBatchID
	case len(s.Cases) > 0:
		return s.Cases[0].ImportBatchID
	case len(s.Entries) > 0:
		return s.Entries[0].ImportBatchID
	}
	return ""
}
