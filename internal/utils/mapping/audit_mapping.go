package mapping

import (
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/models"
)

// ToModelAuditRecord converts a domain AuditRecord to a model AuditRecord
func ToModelAuditRecord(d domain.AuditRecord) models.AuditRecord {
	m := models.AuditRecord{
		AuditID:   d.AuditID,
		EntryID:   d.EntryID,
		Action:    string(d.Action),
		Severity:  string(d.Severity),
		Actor:     d.Actor,
		ClientIP:  d.ClientIP,
		Reason:    d.Reason,
		OldAmount: d.OldAmount,
		NewAmount: d.NewAmount,
		OldValues: d.OldValues,
		NewValues: d.NewValues,
		CreatedAt: d.CreatedAt,
	}
	if d.OldStatus != nil {
		s := string(*d.OldStatus)
		m.OldStatus = &s
	}
	if d.NewStatus != nil {
		s := string(*d.NewStatus)
		m.NewStatus = &s
	}
	return m
}

// ToDomainAuditRecord converts a model AuditRecord to a domain AuditRecord
func ToDomainAuditRecord(m models.AuditRecord) domain.AuditRecord {
	d := domain.AuditRecord{
		AuditID:   m.AuditID,
		EntryID:   m.EntryID,
		Action:    domain.AuditAction(m.Action),
		Severity:  domain.AuditSeverity(m.Severity),
		Actor:     m.Actor,
		ClientIP:  m.ClientIP,
		Reason:    m.Reason,
		OldAmount: m.OldAmount,
		NewAmount: m.NewAmount,
		OldValues: m.OldValues,
		NewValues: m.NewValues,
		CreatedAt: m.CreatedAt,
	}
	if m.OldStatus != nil {
		s := domain.EntryStatus(*m.OldStatus)
		d.OldStatus = &s
	}
	if m.NewStatus != nil {
		s := domain.EntryStatus(*m.NewStatus)
		d.NewStatus = &s
	}
	return d
}

func ToDomainAuditRecordSlice(ms []models.AuditRecord) []domain.AuditRecord {
	ds := make([]domain.AuditRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditRecord(m)
	}
	return ds
}
