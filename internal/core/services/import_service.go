package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger_app/internal/dto"
	"github.com/SscSPs/trust_ledger_app/internal/notify"
)

const importDateLayout = "2006-01-02"

// importService runs the two phase import: rows are staged under a batch, and a second user
// approves or rejects the batch.
type importService struct {
	BaseService
	store    portsrepo.Store
	guard    *complianceGuard
	audit    *auditRecorder
	notifier notify.Notifier
}

// NewImportService creates a new ImportSvc.
func NewImportService(store portsrepo.Store, opts Options) portssvc.ImportSvc {
	opts = opts.withDefaults()
	base := newBaseService(opts.Now)
	return &importService{
		BaseService: base,
		store:       store,
		guard:       newComplianceGuard(base),
		audit:       newAuditRecorder(base),
		notifier:    opts.Notifier,
	}
}

var _ portssvc.ImportSvc = (*importService)(nil)

// StartImport stages rows under a new PENDING_REVIEW batch. Rows that fail to parse are reported
// in the result and skipped; nothing outside the staging tables is written.
func (s *importService) StartImport(ctx context.Context, bankAccountID string, rows []dto.ImportRow, creator domain.Actor) (*dto.StartImportResult, error) {
	verr := &apperrors.ValidationError{}
	checkActor(verr, creator)
	if strings.TrimSpace(bankAccountID) == "" {
		verr.Add("bankAccountID", "is required")
	}
	if len(rows) == 0 {
		verr.Add("rows", "is required")
	}
	if verr.HasErrors() {
		return nil, verr
	}
	if err := checkBankAccount(ctx, s.store, bankAccountID); err != nil {
		return nil, err
	}

	now := s.Now()
	batch := domain.ImportBatch{
		BatchID:       uuid.NewString(),
		BankAccountID: bankAccountID,
		Status:        domain.PendingReview,
		CreatedBy:     creator.UserID,
		CreatedAt:     now,
		TotalRows:     len(rows),
	}

	staged, rowErrors := stageRows(batch.BatchID, rows)
	batch.StagedRows = len(staged.Entries)
	batch.RowErrors = rowErrors

	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		if err := tx.SaveBatch(ctx, batch); err != nil {
			return err
		}
		if len(staged.Entries) == 0 {
			return nil
		}
		return tx.SaveStaged(ctx, staged)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Import batch staged",
		slog.String("batch_id", batch.BatchID),
		slog.Int("total_rows", batch.TotalRows),
		slog.Int("staged_rows", batch.StagedRows),
		slog.Int("row_errors", len(rowErrors)))

	return &dto.StartImportResult{
		BatchID:    batch.BatchID,
		TotalRows:  batch.TotalRows,
		StagedRows: batch.StagedRows,
		RowErrors:  rowErrors,
	}, nil
}

// GetBatch retrieves an import batch by ID.
func (s *importService) GetBatch(ctx context.Context, batchID string) (*domain.ImportBatch, error) {
	return s.store.FindBatchByID(ctx, batchID)
}

// ApproveImport promotes every staged row of the batch to production in one transaction and
// notifies the batch creator. Any failure leaves production untouched and the batch pending.
func (s *importService) ApproveImport(ctx context.Context, batchID string, approver domain.Actor) (*domain.ImportCounts, error) {
	verr := &apperrors.ValidationError{}
	checkActor(verr, approver)
	if verr.HasErrors() {
		return nil, verr
	}

	var counts domain.ImportCounts
	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		batch, err := tx.FindBatchByIDForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if err := s.checkReviewable(ctx, *batch, approver); err != nil {
			return err
		}
		staged, err := tx.FindStaged(ctx, batchID)
		if err != nil {
			return err
		}

		p := &promotion{
			importService: s,
			tx:            tx,
			batch:         *batch,
			approver:      approver,
			now:           s.Now(),
		}
		if err := p.run(ctx, *staged); err != nil {
			return err
		}
		counts = p.counts

		reviewedBy := approver.UserID
		batch.Status = domain.Committed
		batch.ReviewedBy = &reviewedBy
		batch.ReviewedAt = &p.now
		batch.Counts = &counts
		if err := tx.UpdateBatch(ctx, *batch); err != nil {
			return err
		}
		if err := tx.DeleteStaged(ctx, batchID); err != nil {
			return err
		}

		return s.notifier.Notify(ctx, notify.Notification{
			UserID:    batch.CreatedBy,
			Kind:      notify.ImportCommitted,
			BatchID:   batchID,
			Message:   fmt.Sprintf("import batch %s was approved by %s: %d entries created", batchID, approver.UserID, counts.EntriesCreated),
			CreatedAt: p.now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Import batch committed",
		slog.String("batch_id", batchID),
		slog.String("approver", approver.UserID),
		slog.Int("clients_created", counts.ClientsCreated),
		slog.Int("clients_reused", counts.ClientsReused),
		slog.Int("cases_created", counts.CasesCreated),
		slog.Int("vendors_created", counts.VendorsCreated),
		slog.Int("entries_created", counts.EntriesCreated))
	return &counts, nil
}

// RejectImport discards the batch's staged rows and records the reason.
func (s *importService) RejectImport(ctx context.Context, batchID string, approver domain.Actor, reason string) error {
	verr := &apperrors.ValidationError{}
	checkActor(verr, approver)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		verr.Add("reason", "is required")
	}
	if verr.HasErrors() {
		return verr
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx portsrepo.TxStore) error {
		batch, err := tx.FindBatchByIDForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if err := s.checkReviewable(ctx, *batch, approver); err != nil {
			return err
		}
		if err := tx.DeleteStaged(ctx, batchID); err != nil {
			return err
		}

		now := s.Now()
		reviewedBy := approver.UserID
		batch.Status = domain.Rejected
		batch.ReviewedBy = &reviewedBy
		batch.ReviewedAt = &now
		batch.RejectionReason = &reason
		if err := tx.UpdateBatch(ctx, *batch); err != nil {
			return err
		}

		return s.notifier.Notify(ctx, notify.Notification{
			UserID:    batch.CreatedBy,
			Kind:      notify.ImportRejected,
			BatchID:   batchID,
			Message:   fmt.Sprintf("import batch %s was rejected by %s: %s", batchID, approver.UserID, reason),
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	s.LogInfo(ctx, "Import batch rejected", slog.String("batch_id", batchID), slog.String("approver", approver.UserID))
	return nil
}

// checkReviewable enforces dual control, then batch state, then the approval capability.
func (s *importService) checkReviewable(ctx context.Context, batch domain.ImportBatch, reviewer domain.Actor) error {
	if batch.CreatedBy == reviewer.UserID {
		s.LogWarn(ctx, "Dual control violation on import batch",
			slog.String("batch_id", batch.BatchID),
			slog.String("user_id", reviewer.UserID))
		return &apperrors.DualControlError{BatchID: batch.BatchID, UserID: reviewer.UserID}
	}
	if batch.Status.IsResolved() {
		return &apperrors.AlreadyResolvedError{BatchID: batch.BatchID, Status: string(batch.Status)}
	}
	if !reviewer.CanApproveImports {
		s.LogWarn(ctx, "Import review without approval capability",
			slog.String("batch_id", batch.BatchID),
			slog.String("user_id", reviewer.UserID))
		return fmt.Errorf("%w: user %s may not review import batches", apperrors.ErrForbidden, reviewer.UserID)
	}
	return nil
}

// promotion carries the state of one approval while staged rows become production rows.
type promotion struct {
	*importService
	tx       portsrepo.TxStore
	batch    domain.ImportBatch
	approver domain.Actor
	now      time.Time

	clients map[string]string // staging client id -> client id
	cases   map[string]string // staging case id -> case id
	vendors map[string]string // normalized payee -> vendor id
	pending []domain.LedgerEntry
	counts  domain.ImportCounts
}

func (p *promotion) run(ctx context.Context, staged domain.StagedBatch) error {
	if err := p.promoteClients(ctx, staged.Clients); err != nil {
		return err
	}
	if err := p.promoteCases(ctx, staged.Cases); err != nil {
		return err
	}
	if err := p.deriveVendors(ctx, staged.Entries); err != nil {
		return err
	}
	return p.promoteEntries(ctx, staged.Entries)
}

func (p *promotion) auditFields(createdBy string) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     p.now,
		CreatedBy:     createdBy,
		LastUpdatedAt: p.now,
		LastUpdatedBy: p.approver.UserID,
	}
}

// promoteClients reuses a production client with the same normalized name, or creates one.
func (p *promotion) promoteClients(ctx context.Context, staged []domain.StagingClient) error {
	p.clients = make(map[string]string, len(staged))
	if len(staged) == 0 {
		return nil
	}

	names := make([]string, len(staged))
	for i, sc := range staged {
		names[i] = sc.Name
	}
	existing, err := p.tx.FindClientsByNames(ctx, names)
	if err != nil {
		return err
	}

	for _, sc := range staged {
		if client, ok := existing[domain.NormalizeName(sc.Name)]; ok {
			p.clients[sc.StagingClientID] = client.ClientID
			p.counts.ClientsReused++
			continue
		}
		number, err := p.tx.NextSequenceValue(ctx, domain.SequenceClientNumber)
		if err != nil {
			return err
		}
		client := domain.Client{
			ClientID:     uuid.NewString(),
			ClientNumber: number,
			Name:         sc.Name,
			Email:        sc.Email,
			IsActive:     true,
			AuditFields:  p.auditFields(p.batch.CreatedBy),
		}
		if err := p.tx.SaveClient(ctx, client); err != nil {
			return err
		}
		p.clients[sc.StagingClientID] = client.ClientID
		p.counts.ClientsCreated++
	}
	return nil
}

// promoteCases creates a production case per staging case. A case whose client was not mapped
// aborts the approval.
func (p *promotion) promoteCases(ctx context.Context, staged []domain.StagingCase) error {
	p.cases = make(map[string]string, len(staged))
	for _, sc := range staged {
		clientID, ok := p.clients[sc.StagingClientID]
		if !ok {
			return apperrors.NewValidationError("stagingClientID",
				fmt.Sprintf("staging case %s refers to unmapped staging client %s", sc.StagingCaseID, sc.StagingClientID))
		}
		number, err := p.tx.NextSequenceValue(ctx, domain.SequenceCaseNumber)
		if err != nil {
			return err
		}
		c := domain.Case{
			CaseID:      uuid.NewString(),
			CaseNumber:  number,
			ClientID:    clientID,
			Title:       sc.Title,
			IsActive:    true,
			AuditFields: p.auditFields(p.batch.CreatedBy),
		}
		if err := p.tx.SaveCase(ctx, c); err != nil {
			return err
		}
		p.cases[sc.StagingCaseID] = c.CaseID
		p.counts.CasesCreated++
	}
	return nil
}

// deriveVendors creates a vendor for every distinct payee of a debit that matches no existing
// vendor. A vendor whose name is exactly a client's name is linked to that client.
func (p *promotion) deriveVendors(ctx context.Context, entries []domain.StagingLedgerEntry) error {
	p.vendors = make(map[string]string)

	var payees []string
	seen := make(map[string]bool)
	for _, e := range entries {
		key := domain.NormalizeName(e.Payee)
		if !e.Direction.IsDebit() || key == "" || seen[key] {
			continue
		}
		seen[key] = true
		payees = append(payees, strings.TrimSpace(e.Payee))
	}
	if len(payees) == 0 {
		return nil
	}

	existing, err := p.tx.FindVendorsByNames(ctx, payees)
	if err != nil {
		return err
	}
	clients, err := p.tx.FindClientsByNames(ctx, payees)
	if err != nil {
		return err
	}

	for _, payee := range payees {
		key := domain.NormalizeName(payee)
		if v, ok := existing[key]; ok {
			p.vendors[key] = v.VendorID
			continue
		}
		vendor := domain.Vendor{
			VendorID:    uuid.NewString(),
			Name:        payee,
			AuditFields: p.auditFields(p.approver.UserID),
		}
		if client, ok := clients[key]; ok && client.Name == payee {
			linked := client.ClientID
			vendor.LinkedClientID = &linked
		}
		if err := p.tx.SaveVendor(ctx, vendor); err != nil {
			return err
		}
		p.vendors[key] = vendor.VendorID
		p.counts.VendorsCreated++
	}
	return nil
}

// promoteEntries writes entries in ascending transaction date. Credits are batched and flushed
// before each debit so the compliance guard sees every earlier deposit.
func (p *promotion) promoteEntries(ctx context.Context, staged []domain.StagingLedgerEntry) error {
	ordered := make([]domain.StagingLedgerEntry, len(staged))
	copy(ordered, staged)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].TransactionDate.Equal(ordered[j].TransactionDate) {
			return ordered[i].TransactionDate.Before(ordered[j].TransactionDate)
		}
		return ordered[i].RowNumber < ordered[j].RowNumber
	})

	for _, se := range ordered {
		entry, err := p.toEntry(se)
		if err != nil {
			return err
		}
		if !entry.Direction.IsDebit() {
			p.pending = append(p.pending, entry)
			continue
		}
		if err := p.flush(ctx); err != nil {
			return err
		}
		if err := p.guard.Check(ctx, p.tx, entry, nil); err != nil {
			return fmt.Errorf("import row %d: %w", se.RowNumber, err)
		}
		if err := p.tx.SaveEntry(ctx, entry); err != nil {
			return err
		}
		if err := p.record(ctx, entry); err != nil {
			return err
		}
	}
	return p.flush(ctx)
}

func (p *promotion) flush(ctx context.Context) error {
	if len(p.pending) == 0 {
		return nil
	}
	if err := p.tx.SaveEntries(ctx, p.pending); err != nil {
		return err
	}
	for _, entry := range p.pending {
		if err := p.record(ctx, entry); err != nil {
			return err
		}
	}
	p.pending = p.pending[:0]
	return nil
}

func (p *promotion) record(ctx context.Context, entry domain.LedgerEntry) error {
	reason := "import batch " + p.batch.BatchID + " approved"
	if err := p.audit.Record(ctx, p.tx, domain.NewAuditRecord(domain.AuditCreate, nil, entry, p.approver, reason, p.now)); err != nil {
		return err
	}
	p.counts.EntriesCreated++
	return nil
}

func (p *promotion) toEntry(se domain.StagingLedgerEntry) (domain.LedgerEntry, error) {
	batchID := p.batch.BatchID
	entry := domain.LedgerEntry{
		EntryID:         uuid.NewString(),
		BankAccountID:   p.batch.BankAccountID,
		Amount:          se.Amount,
		Direction:       se.Direction,
		TransactionDate: se.TransactionDate,
		Status:          domain.Pending,
		Payee:           se.Payee,
		Reference:       se.Reference,
		Description:     se.Description,
		ImportBatchID:   &batchID,
		AuditFields:     p.auditFields(p.batch.CreatedBy),
	}
	if se.StagingClientID != nil {
		id, ok := p.clients[*se.StagingClientID]
		if !ok {
			return entry, apperrors.NewValidationError("stagingClientID",
				fmt.Sprintf("row %d refers to unmapped staging client %s", se.RowNumber, *se.StagingClientID))
		}
		entry.ClientID = &id
	}
	if se.StagingCaseID != nil {
		id, ok := p.cases[*se.StagingCaseID]
		if !ok {
			return entry, apperrors.NewValidationError("stagingCaseID",
				fmt.Sprintf("row %d refers to unmapped staging case %s", se.RowNumber, *se.StagingCaseID))
		}
		entry.CaseID = &id
	}
	if se.Direction.IsDebit() {
		if id, ok := p.vendors[domain.NormalizeName(se.Payee)]; ok {
			entry.VendorID = &id
		}
	}
	return entry, nil
}

// stageRows parses rows into staging records. Clients are shared by normalized name and cases by
// client and normalized title.
func stageRows(batchID string, rows []dto.ImportRow) (domain.StagedBatch, []domain.RowError) {
	var (
		staged    domain.StagedBatch
		rowErrors []domain.RowError
		clients   = make(map[string]string)
		cases     = make(map[string]string)
	)

	for i, row := range rows {
		rowNumber := row.Row
		if rowNumber == 0 {
			rowNumber = i + 1
		}
		parsed, errs := parseImportRow(rowNumber, row)
		if len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}

		entry := domain.StagingLedgerEntry{
			StagingEntryID:  uuid.NewString(),
			ImportBatchID:   batchID,
			RowNumber:       rowNumber,
			Amount:          parsed.amount,
			Direction:       parsed.direction,
			TransactionDate: parsed.date,
			Payee:           strings.TrimSpace(row.Payee),
			Reference:       strings.TrimSpace(row.Reference),
			Description:     strings.TrimSpace(row.Description),
		}

		if clientKey := domain.NormalizeName(row.ClientName); clientKey != "" {
			clientID, ok := clients[clientKey]
			if !ok {
				clientID = uuid.NewString()
				clients[clientKey] = clientID
				staged.Clients = append(staged.Clients, domain.StagingClient{
					StagingClientID: clientID,
					ImportBatchID:   batchID,
					Name:            strings.Join(strings.Fields(row.ClientName), " "),
					Email:           strings.TrimSpace(row.ClientEmail),
				})
			}
			entry.StagingClientID = &clientID

			if titleKey := domain.NormalizeName(row.CaseTitle); titleKey != "" {
				caseKey := clientID + "|" + titleKey
				caseID, ok := cases[caseKey]
				if !ok {
					caseID = uuid.NewString()
					cases[caseKey] = caseID
					staged.Cases = append(staged.Cases, domain.StagingCase{
						StagingCaseID:   caseID,
						ImportBatchID:   batchID,
						StagingClientID: clientID,
						Title:           strings.TrimSpace(row.CaseTitle),
					})
				}
				entry.StagingCaseID = &caseID
			}
		}

		staged.Entries = append(staged.Entries, entry)
	}
	return staged, rowErrors
}

type parsedRow struct {
	date      time.Time
	direction domain.Direction
	amount    decimal.Decimal
}

func parseImportRow(rowNumber int, row dto.ImportRow) (parsedRow, []domain.RowError) {
	var (
		parsed parsedRow
		errs   []domain.RowError
	)
	fail := func(field, msg string) {
		errs = append(errs, domain.RowError{Row: rowNumber, Field: field, Message: msg})
	}

	date, err := time.Parse(importDateLayout, strings.TrimSpace(row.TransactionDate))
	if err != nil {
		fail("transactionDate", "must be a date in YYYY-MM-DD format")
	}
	parsed.date = date

	parsed.direction = domain.Direction(strings.ToUpper(strings.TrimSpace(row.Direction)))
	if !parsed.direction.IsValid() {
		fail("direction", "unknown direction "+row.Direction)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
	switch {
	case err != nil:
		fail("amount", "must be a decimal number")
	case !amount.IsPositive():
		fail("amount", "must be greater than zero")
	case !amount.Equal(amount.Round(2)):
		fail("amount", "must have at most two decimal places")
	}
	parsed.amount = amount

	if strings.TrimSpace(row.Payee) == "" {
		fail("payee", "is required")
	}
	if strings.TrimSpace(row.Description) == "" {
		fail("description", "is required")
	}

	hasClient := domain.NormalizeName(row.ClientName) != ""
	hasCase := domain.NormalizeName(row.CaseTitle) != ""
	if hasCase && !hasClient {
		fail("clientName", "is required when caseTitle is given")
	}
	if parsed.direction.RequiresClientAndCase() {
		if !hasClient {
			fail("clientName", "is required for "+string(parsed.direction))
		}
		if !hasCase {
			fail("caseTitle", "is required for "+string(parsed.direction))
		}
	}
	return parsed, errs
}
