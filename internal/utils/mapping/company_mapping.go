package mapping

import (
	"database/sql"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/models"
)

// ToModelCompany converts a domain company to its DB representation.
func ToModelCompany(d domain.Company) models.Company {
	m := models.Company{
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	if d.TaxID != nil {
		m.TaxID = sql.NullString{String: *d.TaxID, Valid: true}
	}
	return m
}

// ToDomainCompany converts a DB company row to the domain.
func ToDomainCompany(m models.Company) domain.Company {
	d := domain.Company{
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Address:     m.Address,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.TaxID.Valid {
		taxID := m.TaxID.String
		d.TaxID = &taxID
	}
	return d
}

// ToModelClient converts a domain client to its DB representation.
func ToModelClient(d domain.Client) models.Client {
	m := models.Client{
		ClientID:    d.ClientID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		IsDeleted:   d.IsDeleted,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	if d.TaxID != nil {
		m.TaxID = sql.NullString{String: *d.TaxID, Valid: true}
	}
	return m
}

// ToDomainClient converts a DB client row to the domain.
func ToDomainClient(m models.Client) domain.Client {
	d := domain.Client{
		ClientID:    m.ClientID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Address:     m.Address,
		IsDeleted:   m.IsDeleted,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.TaxID.Valid {
		taxID := m.TaxID.String
		d.TaxID = &taxID
	}
	return d
}
