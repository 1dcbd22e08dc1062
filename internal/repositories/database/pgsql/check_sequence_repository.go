package pgsql

import (
	"context"

	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
)

// FindCounterForUpdate locks the bank account's counter row, seeding it on first use.
func (r *BaseRepository) FindCounterForUpdate(ctx context.Context, bankAccountID string, seed int64) (*domain.CheckSequenceCounter, error) {
	insert := `
		INSERT INTO check_sequence_counters (bank_account_id, next_check_number)
		VALUES ($1, $2)
		ON CONFLICT (bank_account_id) DO NOTHING;
	`
	if _, err := r.DB.Exec(ctx, insert, bankAccountID, seed); err != nil {
		return nil, mapError(err, "seed check counter for bank account "+bankAccountID)
	}

	query := `
		SELECT bank_account_id, next_check_number, last_assigned_number, updated_at
		FROM check_sequence_counters
		WHERE bank_account_id = $1
		FOR UPDATE;
	`
	var c domain.CheckSequenceCounter
	err := r.DB.QueryRow(ctx, query, bankAccountID).Scan(&c.BankAccountID, &c.NextCheckNumber, &c.LastAssignedNumber, &c.UpdatedAt)
	if err != nil {
		return nil, findError(err, "check counter for bank account "+bankAccountID)
	}
	return &c, nil
}

// SaveCounter stores the counter's advanced position.
func (r *BaseRepository) SaveCounter(ctx context.Context, counter domain.CheckSequenceCounter) error {
	query := `
		INSERT INTO check_sequence_counters (bank_account_id, next_check_number, last_assigned_number, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (bank_account_id) DO UPDATE
		SET next_check_number = EXCLUDED.next_check_number,
		    last_assigned_number = EXCLUDED.last_assigned_number,
		    updated_at = EXCLUDED.updated_at;
	`
	_, err := r.DB.Exec(ctx, query, counter.BankAccountID, counter.NextCheckNumber, counter.LastAssignedNumber, counter.UpdatedAt)
	if err != nil {
		return mapError(err, "save check counter for bank account "+counter.BankAccountID)
	}
	return nil
}
