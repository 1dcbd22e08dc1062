package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/trust_ledger_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry(id string, direction domain.Direction, amount string) domain.LedgerEntry {
	clientID := "client-1"
	return domain.LedgerEntry{
		EntryID:         id,
		BankAccountID:   "bank-1",
		ClientID:        &clientID,
		Amount:          decimal.RequireFromString(amount),
		Direction:       direction,
		TransactionDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Status:          domain.Pending,
	}
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		return tx.SaveEntry(ctx, sampleEntry("e1", domain.Deposit, "10.00"))
	})
	require.NoError(t, err)

	entry, err := store.FindEntryByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "10.00", entry.Amount.StringFixed(2))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		if err := tx.SaveEntry(ctx, sampleEntry("e1", domain.Deposit, "10.00")); err != nil {
			return err
		}
		if _, err := tx.NextSequenceValue(ctx, domain.SequenceClientNumber); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.FindEntryByID(ctx, "e1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	next, err := store.NextSequenceValue(ctx, domain.SequenceClientNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestWithTx_LockTimeout(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithLockTimeout(10 * time.Millisecond))
	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = store.WithTx(ctx, func(context.Context, portsrepo.TxStore) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := store.WithTx(ctx, func(context.Context, portsrepo.TxStore) error { return nil })
	close(release)
	<-done

	assert.ErrorIs(t, err, apperrors.ErrLockTimeout)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestSumBalances(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	voided := sampleEntry("e3", domain.Deposit, "500.00")
	voided.Status = domain.Voided
	for _, e := range []domain.LedgerEntry{
		sampleEntry("e1", domain.Deposit, "100.00"),
		sampleEntry("e2", domain.Withdrawal, "30.25"),
		voided,
	} {
		require.NoError(t, store.SaveEntry(ctx, e))
	}

	sums, err := store.SumBalances(ctx, domain.ScopeClient, []string{"client-1", "client-2"})
	require.NoError(t, err)
	assert.Equal(t, "69.75", sums["client-1"].StringFixed(2))
	assert.True(t, sums["client-2"].IsZero())

	single, err := store.SumBalance(ctx, domain.ScopeBankAccount, "bank-1")
	require.NoError(t, err)
	assert.Equal(t, "69.75", single.StringFixed(2))
}

func TestFindClientsByNames_OldestWins(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveClient(ctx, domain.Client{ClientID: "c2", ClientNumber: 2, Name: "Jane  Roe"}))
	require.NoError(t, store.SaveClient(ctx, domain.Client{ClientID: "c1", ClientNumber: 1, Name: "jane roe"}))

	found, err := store.FindClientsByNames(ctx, []string{"JANE ROE"})
	require.NoError(t, err)
	assert.Equal(t, "c1", found["jane roe"].ClientID)
}

func TestFindCounterForUpdate_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	counter, err := store.FindCounterForUpdate(ctx, "bank-1", 1001)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), counter.NextCheckNumber)

	counter.NextCheckNumber = 1010
	require.NoError(t, store.SaveCounter(ctx, *counter))

	again, err := store.FindCounterForUpdate(ctx, "bank-1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1010), again.NextCheckNumber)
}

func TestFindStaged_KeepsSavedOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveStaged(ctx, domain.StagedBatch{
		Clients: []domain.StagingClient{
			{StagingClientID: "s-zed", ImportBatchID: "batch-1", Name: "Zed Zulu"},
			{StagingClientID: "s-abe", ImportBatchID: "batch-1", Name: "Abe Able"},
		},
		Cases: []domain.StagingCase{
			{StagingCaseID: "k-zed", ImportBatchID: "batch-1", StagingClientID: "s-zed", Title: "Zulu Estate"},
			{StagingCaseID: "k-abe", ImportBatchID: "batch-1", StagingClientID: "s-abe", Title: "Able Trust"},
		},
	}))

	staged, err := store.FindStaged(ctx, "batch-1")
	require.NoError(t, err)
	require.Len(t, staged.Clients, 2)
	assert.Equal(t, "s-zed", staged.Clients[0].StagingClientID)
	assert.Equal(t, "s-abe", staged.Clients[1].StagingClientID)
	require.Len(t, staged.Cases, 2)
	assert.Equal(t, "k-zed", staged.Cases[0].StagingCaseID)
	assert.Equal(t, "k-abe", staged.Cases[1].StagingCaseID)
}
