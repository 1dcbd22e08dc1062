package domain

import "time"

// CheckSequenceCounter tracks the next check number for a bank account. A denormalized copy
// lives on BankAccount.NextCheckNumber; the two are written together.
type CheckSequenceCounter struct {
	BankAccountID      string     `json:"bankAccountID"`
	NextCheckNumber    int64      `json:"nextCheckNumber"`
	LastAssignedNumber *int64     `json:"lastAssignedNumber,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// ReconcileNextCheckNumber returns the authoritative next number: the larger copy wins, so a
// manual correction on the bank account is honored rather than overwritten.
func ReconcileNextCheckNumber(counter CheckSequenceCounter, account BankAccount) int64 {
	if account.NextCheckNumber > counter.NextCheckNumber {
		return account.NextCheckNumber
	}
	return counter.NextCheckNumber
}

// CheckRange returns the contiguous numbers [start, start+count).
func CheckRange(start int64, count int) []int64 {
	numbers := make([]int64, count)
	for i := range numbers {
		numbers[i] = start + int64(i)
	}
	return numbers
}

// Advance records an allocation of count numbers starting at start on both copies.
func (c *CheckSequenceCounter) Advance(account *BankAccount, start int64, count int, at time.Time) {
	next := start + int64(count)
	last := next - 1
	c.NextCheckNumber = next
	c.LastAssignedNumber = &last
	c.UpdatedAt = &at
	account.NextCheckNumber = next
	account.LastUpdatedAt = at
}
