package dto

// AllocateChecksRequest asks for count contiguous check numbers.
type AllocateChecksRequest struct {
	Count int `json:"count" binding:"required,min=1"`
}

// AllocateChecksResponse returns the allocated range.
type AllocateChecksResponse struct {
	BankAccountID string  `json:"bankAccountID"`
	Numbers       []int64 `json:"numbers"`
}

// AssignChecksRequest lists pending debit entries that should receive check numbers, in order.
type AssignChecksRequest struct {
	EntryIDs []string `json:"entryIDs" binding:"required,min=1,dive,required"`
}

// CheckAssignment pairs an entry with the check number written to its reference.
type CheckAssignment struct {
	EntryID     string `json:"entryID"`
	CheckNumber int64  `json:"checkNumber"`
}

// AssignChecksResponse returns one assignment per requested entry.
type AssignChecksResponse struct {
	BankAccountID string            `json:"bankAccountID"`
	Assignments   []CheckAssignment `json:"assignments"`
}

// SetNextCheckNumberRequest is the manual correction of a bank account's next check number.
type SetNextCheckNumberRequest struct {
	NextCheckNumber int64 `json:"nextCheckNumber" binding:"required,min=1"`
}
