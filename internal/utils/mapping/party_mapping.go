package mapping

import (
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/SscSPs/trust_ledger_app/internal/models"
)

// ToModelClient converts a domain Client to a model Client, deriving the normalized name.
func ToModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:       d.ClientID,
		ClientNumber:   d.ClientNumber,
		Name:           d.Name,
		NormalizedName: domain.NormalizeName(d.Name),
		Email:          d.Email,
		IsActive:       d.IsActive,
		AuditFields:    toModelAuditFields(d.AuditFields),
	}
}

// ToDomainClient converts a model Client to a domain Client
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:     m.ClientID,
		ClientNumber: m.ClientNumber,
		Name:         m.Name,
		Email:        m.Email,
		IsActive:     m.IsActive,
		AuditFields:  toDomainAuditFields(m.AuditFields),
	}
}

func ToModelCase(d domain.Case) models.Case {
	return models.Case{
		CaseID:      d.CaseID,
		CaseNumber:  d.CaseNumber,
		ClientID:    d.ClientID,
		Title:       d.Title,
		IsActive:    d.IsActive,
		AuditFields: toModelAuditFields(d.AuditFields),
	}
}

func ToDomainCase(m models.Case) domain.Case {
	return domain.Case{
		CaseID:      m.CaseID,
		CaseNumber:  m.CaseNumber,
		ClientID:    m.ClientID,
		Title:       m.Title,
		IsActive:    m.IsActive,
		AuditFields: toDomainAuditFields(m.AuditFields),
	}
}

// ToModelVendor converts a domain Vendor to a model Vendor, deriving the normalized name.
func ToModelVendor(d domain.Vendor) models.Vendor {
	return models.Vendor{
		VendorID:       d.VendorID,
		Name:           d.Name,
		NormalizedName: domain.NormalizeName(d.Name),
		LinkedClientID: d.LinkedClientID,
		AuditFields:    toModelAuditFields(d.AuditFields),
	}
}

func ToDomainVendor(m models.Vendor) domain.Vendor {
	return domain.Vendor{
		VendorID:       m.VendorID,
		Name:           m.Name,
		LinkedClientID: m.LinkedClientID,
		AuditFields:    toDomainAuditFields(m.AuditFields),
	}
}

func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID:   d.BankAccountID,
		Name:            d.Name,
		AccountNumber:   d.AccountNumber,
		NextCheckNumber: d.NextCheckNumber,
		IsActive:        d.IsActive,
		AuditFields:     toModelAuditFields(d.AuditFields),
	}
}

func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:   m.BankAccountID,
		Name:            m.Name,
		AccountNumber:   m.AccountNumber,
		NextCheckNumber: m.NextCheckNumber,
		IsActive:        m.IsActive,
		AuditFields:     toDomainAuditFields(m.AuditFields),
	}
}

func toModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{CreatedAt: d.CreatedAt, CreatedBy: d.CreatedBy, LastUpdatedAt: d.LastUpdatedAt, LastUpdatedBy: d.LastUpdatedBy}
}

func toDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{CreatedAt: m.CreatedAt, CreatedBy: m.CreatedBy, LastUpdatedAt: m.LastUpdatedAt, LastUpdatedBy: m.LastUpdatedBy}
}
