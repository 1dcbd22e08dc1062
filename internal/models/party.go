package models

// Client is a row of clients. NormalizedName backs identity matching on import.
type Client struct {
	ClientID       string `db:"client_id"`
	ClientNumber   int64  `db:"client_number"`
	Name           string `db:"name"`
	NormalizedName string `db:"normalized_name"`
	Email          string `db:"email"`
	IsActive       bool   `db:"is_active"`
	AuditFields
}

// Case is a row of cases.
type Case struct {
	CaseID     string `db:"case_id"`
	CaseNumber int64  `db:"case_number"`
	ClientID   string `db:"client_id"`
	Title      string `db:"title"`
	IsActive   bool   `db:"is_active"`
	AuditFields
}

// Vendor is a row of vendors.
type Vendor struct {
	VendorID       string  `db:"vendor_id"`
	Name           string  `db:"name"`
	NormalizedName string  `db:"normalized_name"`
	LinkedClientID *string `db:"linked_client_id"`
	AuditFields
}

// BankAccount is a row of bank_accounts.
type BankAccount struct {
	BankAccountID   string `db:"bank_account_id"`
	Name            string `db:"name"`
	AccountNumber   string `db:"account_number"`
	NextCheckNumber int64  `db:"next_check_number"`
	IsActive        bool   `db:"is_active"`
	AuditFields
}
