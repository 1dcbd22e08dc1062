package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/models"
	"github.com/SscSPs/trust_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const (
	clientColumns      = `client_id, client_number, name, normalized_name, email, is_active, created_at, created_by, last_updated_at, last_updated_by`
	caseColumns        = `case_id, case_number, client_id, title, is_active, created_at, created_by, last_updated_at, last_updated_by`
	vendorColumns      = `vendor_id, name, normalized_name, linked_client_id, created_at, created_by, last_updated_at, last_updated_by`
	bankAccountColumns = `bank_account_id, name, account_number, next_check_number, is_active, created_at, created_by, last_updated_at, last_updated_by`
)

func scanClient(row pgx.Row) (models.Client, error) {
	var m models.Client
	err := row.Scan(&m.ClientID, &m.ClientNumber, &m.Name, &m.NormalizedName, &m.Email, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func scanCase(row pgx.Row) (models.Case, error) {
	var m models.Case
	err := row.Scan(&m.CaseID, &m.CaseNumber, &m.ClientID, &m.Title, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func scanVendor(row pgx.Row) (models.Vendor, error) {
	var m models.Vendor
	err := row.Scan(&m.VendorID, &m.Name, &m.NormalizedName, &m.LinkedClientID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func scanBankAccount(row pgx.Row) (models.BankAccount, error) {
	var m models.BankAccount
	err := row.Scan(&m.BankAccountID, &m.Name, &m.AccountNumber, &m.NextCheckNumber, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func normalizedNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		key := domain.NormalizeName(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// --- clients ---

// SaveClient inserts a new client.
func (r *BaseRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `INSERT INTO clients (` + clientColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := r.DB.Exec(ctx, query, m.ClientID, m.ClientNumber, m.Name, m.NormalizedName, m.Email, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "insert client "+client.ClientID)
	}
	return nil
}

func (r *BaseRepository) findClient(ctx context.Context, clientID string, forUpdate bool) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanClient(r.DB.QueryRow(ctx, query, clientID))
	if err != nil {
		return nil, findError(err, "client "+clientID)
	}
	client := mapping.ToDomainClient(m)
	return &client, nil
}

// FindClientByID retrieves a client by its ID.
func (r *BaseRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	return r.findClient(ctx, clientID, false)
}

// FindClientByIDForUpdate retrieves and row-locks a client.
func (r *BaseRepository) FindClientByIDForUpdate(ctx context.Context, clientID string) (*domain.Client, error) {
	return r.findClient(ctx, clientID, true)
}

// FindClientsByNames resolves names to clients, keyed by normalized name. The oldest client wins
// when several share a name.
func (r *BaseRepository) FindClientsByNames(ctx context.Context, names []string) (map[string]domain.Client, error) {
	found := make(map[string]domain.Client)
	if len(names) == 0 {
		return found, nil
	}
	query := `
		SELECT DISTINCT ON (normalized_name) ` + clientColumns + `
		FROM clients
		WHERE normalized_name = ANY($1)
		ORDER BY normalized_name, client_number;
	`
	rows, err := r.DB.Query(ctx, query, normalizedNames(names))
	if err != nil {
		return nil, mapError(err, "find clients by name")
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanClient(rows)
		if err != nil {
			return nil, mapError(err, "scan client row")
		}
		found[m.NormalizedName] = mapping.ToDomainClient(m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate client rows")
	}
	return found, nil
}

// --- cases ---

// SaveCase inserts a new case.
func (r *BaseRepository) SaveCase(ctx context.Context, c domain.Case) error {
	m := mapping.ToModelCase(c)
	query := `INSERT INTO cases (` + caseColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err := r.DB.Exec(ctx, query, m.CaseID, m.CaseNumber, m.ClientID, m.Title, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "insert case "+c.CaseID)
	}
	return nil
}

func (r *BaseRepository) findCase(ctx context.Context, caseID string, forUpdate bool) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE case_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanCase(r.DB.QueryRow(ctx, query, caseID))
	if err != nil {
		return nil, findError(err, "case "+caseID)
	}
	c := mapping.ToDomainCase(m)
	return &c, nil
}

func (r *BaseRepository) FindCaseByID(ctx context.Context, caseID string) (*domain.Case, error) {
	return r.findCase(ctx, caseID, false)
}

func (r *BaseRepository) FindCaseByIDForUpdate(ctx context.Context, caseID string) (*domain.Case, error) {
	return r.findCase(ctx, caseID, true)
}

// --- vendors ---

// SaveVendor inserts a new vendor. Vendor names are unique after normalization.
func (r *BaseRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	m := mapping.ToModelVendor(vendor)
	query := `INSERT INTO vendors (` + vendorColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	_, err := r.DB.Exec(ctx, query, m.VendorID, m.Name, m.NormalizedName, m.LinkedClientID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "insert vendor "+vendor.Name)
	}
	return nil
}

func (r *BaseRepository) FindVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE vendor_id = $1`
	m, err := scanVendor(r.DB.QueryRow(ctx, query, vendorID))
	if err != nil {
		return nil, findError(err, "vendor "+vendorID)
	}
	v := mapping.ToDomainVendor(m)
	return &v, nil
}

// FindVendorsByNames resolves names to vendors, keyed by normalized name.
func (r *BaseRepository) FindVendorsByNames(ctx context.Context, names []string) (map[string]domain.Vendor, error) {
	found := make(map[string]domain.Vendor)
	if len(names) == 0 {
		return found, nil
	}
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE normalized_name = ANY($1);`
	rows, err := r.DB.Query(ctx, query, normalizedNames(names))
	if err != nil {
		return nil, mapError(err, "find vendors by name")
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanVendor(rows)
		if err != nil {
			return nil, mapError(err, "scan vendor row")
		}
		found[m.NormalizedName] = mapping.ToDomainVendor(m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate vendor rows")
	}
	return found, nil
}

// --- bank accounts ---

// SaveBankAccount inserts a new bank account.
func (r *BaseRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := mapping.ToModelBankAccount(account)
	query := `INSERT INTO bank_accounts (` + bankAccountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err := r.DB.Exec(ctx, query, m.BankAccountID, m.Name, m.AccountNumber, m.NextCheckNumber, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "insert bank account "+account.BankAccountID)
	}
	return nil
}

func (r *BaseRepository) findBankAccount(ctx context.Context, bankAccountID string, forUpdate bool) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanBankAccount(r.DB.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		return nil, findError(err, "bank account "+bankAccountID)
	}
	a := mapping.ToDomainBankAccount(m)
	return &a, nil
}

func (r *BaseRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	return r.findBankAccount(ctx, bankAccountID, false)
}

func (r *BaseRepository) FindBankAccountByIDForUpdate(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	return r.findBankAccount(ctx, bankAccountID, true)
}

// UpdateBankAccountNextCheckNumber stores the account's copy of the next check number.
func (r *BaseRepository) UpdateBankAccountNextCheckNumber(ctx context.Context, bankAccountID string, next int64, userID string, at time.Time) error {
	query := `
		UPDATE bank_accounts
		SET next_check_number = $2, last_updated_at = $3, last_updated_by = $4
		WHERE bank_account_id = $1;
	`
	tag, err := r.DB.Exec(ctx, query, bankAccountID, next, at, userID)
	if err != nil {
		return mapError(err, "update next check number for bank account "+bankAccountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("bank account " + bankAccountID)
	}
	return nil
}

// NextSequenceValue increments the named sequence row, locking it until the transaction ends.
func (r *BaseRepository) NextSequenceValue(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO number_sequences (name, last_value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET last_value = number_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	if err := r.DB.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, mapError(err, "advance sequence "+name)
	}
	return value, nil
}
