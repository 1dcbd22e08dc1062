package mapping

import (
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:         d.EntryID,
		BankAccountID:   d.BankAccountID,
		ClientID:        d.ClientID,
		CaseID:          d.CaseID,
		VendorID:        d.VendorID,
		Amount:          d.Amount,
		Direction:       string(d.Direction),
		TransactionDate: d.TransactionDate,
		PostDate:        d.PostDate,
		ClearedDate:     d.ClearedDate,
		Status:          string(d.Status),
		Payee:           d.Payee,
		Reference:       d.Reference,
		Description:     d.Description,
		ImportBatchID:   d.ImportBatchID,
		VoidedAt:        d.VoidedAt,
		VoidedBy:        d.VoidedBy,
		VoidReason:      d.VoidReason,
		AuditFields:     toModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:         m.EntryID,
		BankAccountID:   m.BankAccountID,
		ClientID:        m.ClientID,
		CaseID:          m.CaseID,
		VendorID:        m.VendorID,
		Amount:          m.Amount,
		Direction:       domain.Direction(m.Direction),
		TransactionDate: m.TransactionDate,
		PostDate:        m.PostDate,
		ClearedDate:     m.ClearedDate,
		Status:          domain.EntryStatus(m.Status),
		Payee:           m.Payee,
		Reference:       m.Reference,
		Description:     m.Description,
		ImportBatchID:   m.ImportBatchID,
		VoidedAt:        m.VoidedAt,
		VoidedBy:        m.VoidedBy,
		VoidReason:      m.VoidReason,
		AuditFields:     toDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
