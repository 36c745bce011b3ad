package mapping

import (
	"database/sql"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/models"
)

// ToModelCashAccount converts a domain cash account to its DB representation.
func ToModelCashAccount(d domain.CashAccount) models.CashAccount {
	return models.CashAccount{
		AccountID:      d.AccountID,
		CompanyID:      d.CompanyID,
		Name:           d.Name,
		CurrencyCode:   d.CurrencyCode,
		InitialBalance: d.InitialBalance,
		Balance:        d.Balance,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCashAccount converts a DB cash account row to the domain.
func ToDomainCashAccount(m models.CashAccount) domain.CashAccount {
	return domain.CashAccount{
		AccountID:      m.AccountID,
		CompanyID:      m.CompanyID,
		Name:           m.Name,
		CurrencyCode:   m.CurrencyCode,
		InitialBalance: m.InitialBalance,
		Balance:        m.Balance,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransaction converts a domain transaction to its DB representation.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:   d.TransactionID,
		CompanyID:       d.CompanyID,
		AccountID:       d.AccountID,
		Type:            string(d.Type),
		Amount:          d.Amount,
		Description:     d.Description,
		Category:        d.Category,
		TransactionDate: d.TransactionDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if d.InvoiceID != nil {
		m.InvoiceID = sql.NullString{String: *d.InvoiceID, Valid: true}
	}
	return m
}

// ToDomainTransaction converts a DB transaction row to the domain.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:   m.TransactionID,
		CompanyID:       m.CompanyID,
		AccountID:       m.AccountID,
		Type:            domain.TransactionType(m.Type),
		Amount:          m.Amount,
		Description:     m.Description,
		Category:        m.Category,
		TransactionDate: m.TransactionDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if m.InvoiceID.Valid {
		invoiceID := m.InvoiceID.String
		d.InvoiceID = &invoiceID
	}
	return d
}
