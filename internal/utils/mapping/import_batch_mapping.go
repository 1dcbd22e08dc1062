package mapping

import (
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/models"
)

// ToModelImportBatch converts a domain ImportBatch to a model ImportBatch
func ToModelImportBatch(d domain.ImportBatch) models.ImportBatch {
	m := models.ImportBatch{
		BatchID:         d.BatchID,
		BankAccountID:   d.BankAccountID,
		Status:          string(d.Status),
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
		ReviewedBy:      d.ReviewedBy,
		ReviewedAt:      d.ReviewedAt,
		RejectionReason: d.RejectionReason,
		TotalRows:       d.TotalRows,
		StagedRows:      d.StagedRows,
		RowErrors:       make([]models.RowError, len(d.RowErrors)),
	}
	for i, e := range d.RowErrors {
		m.RowErrors[i] = models.RowError(e)
	}
	if d.Counts != nil {
		c := models.ImportCounts(*d.Counts)
		m.Counts = &c
	}
	return m
}

// ToDomainImportBatch converts a model ImportBatch to a domain ImportBatch
func ToDomainImportBatch(m models.ImportBatch) domain.ImportBatch {
	d := domain.ImportBatch{
		BatchID:         m.BatchID,
		BankAccountID:   m.BankAccountID,
		Status:          domain.ApprovalStatus(m.Status),
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
		ReviewedBy:      m.ReviewedBy,
		ReviewedAt:      m.ReviewedAt,
		RejectionReason: m.RejectionReason,
		TotalRows:       m.TotalRows,
		StagedRows:      m.StagedRows,
	}
	if len(m.RowErrors) > 0 {
		d.RowErrors = make([]domain.RowError, len(m.RowErrors))
		for i, e := range m.RowErrors {
			d.RowErrors[i] = domain.RowError(e)
		}
	}
	if m.Counts != nil {
		c := domain.ImportCounts(*m.Counts)
		d.Counts = &c
	}
	return d
}
