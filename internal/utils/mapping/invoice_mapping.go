package mapping

import (
	"database/sql"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/models"
)

// ToModelInvoice converts a domain invoice to its DB representation.
// Items are mapped separately; see ToModelInvoiceItem.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	m := models.Invoice{
		InvoiceID:     d.InvoiceID,
		CompanyID:     d.CompanyID,
		ClientID:      d.ClientID,
		ClientName:    d.ClientName,
		ClientEmail:   d.ClientEmail,
		InvoiceNumber: d.InvoiceNumber,
		TotalAmount:   d.TotalAmount,
		AmountPaid:    d.AmountPaid,
		IsPaid:        d.IsPaid,
		IssueDate:     d.IssueDate,
		DueDate:       d.DueDate,
		Status:        string(d.Status),
		PaidAt:        d.PaidAt,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.ClientTaxID != nil {
		m.ClientTaxID = sql.NullString{String: *d.ClientTaxID, Valid: true}
	}
	return m
}

// ToDomainInvoice converts a DB invoice row to the domain.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	d := domain.Invoice{
		InvoiceID:     m.InvoiceID,
		CompanyID:     m.CompanyID,
		ClientID:      m.ClientID,
		ClientName:    m.ClientName,
		ClientEmail:   m.ClientEmail,
		InvoiceNumber: m.InvoiceNumber,
		TotalAmount:   m.TotalAmount,
		AmountPaid:    m.AmountPaid,
		IsPaid:        m.IsPaid,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		Status:        domain.InvoiceStatus(m.Status),
		PaidAt:        m.PaidAt,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.ClientTaxID.Valid {
		taxID := m.ClientTaxID.String
		d.ClientTaxID = &taxID
	}
	return d
}

// ToModelInvoiceItem converts a domain invoice line to its DB representation.
func ToModelInvoiceItem(d domain.InvoiceItem) models.InvoiceItem {
	return models.InvoiceItem{
		ItemID:      d.ItemID,
		InvoiceID:   d.InvoiceID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		Total:       d.Total,
	}
}

// ToDomainInvoiceItem converts a DB invoice line row to the domain.
func ToDomainInvoiceItem(m models.InvoiceItem) domain.InvoiceItem {
	return domain.InvoiceItem{
		ItemID:      m.ItemID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Total:       m.Total,
	}
}
