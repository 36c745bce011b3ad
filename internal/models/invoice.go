package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the DB-layer representation of an invoice row.
type Invoice struct {
	InvoiceID     string         `db:"invoice_id"`
	CompanyID     string         `db:"company_id"`
	ClientID      string         `db:"client_id"`
	ClientName    string         `db:"client_name"`
	ClientEmail   string         `db:"client_email"`
	ClientTaxID   sql.NullString `db:"client_tax_id"`
	InvoiceNumber string         `db:"invoice_number"`
	Sequence      int64          `db:"sequence"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	AmountPaid    decimal.Decimal `db:"amount_paid"`
	IsPaid        bool            `db:"is_paid"`
	IssueDate     time.Time       `db:"issue_date"`
	DueDate       time.Time       `db:"due_date"`
	Status        string          `db:"status"`
	PaidAt        *time.Time      `db:"paid_at"`
	Notes         string          `db:"notes"`
	AuditFields
}

// InvoiceItem is the DB-layer representation of an invoice line.
type InvoiceItem struct {
	ItemID      string          `db:"item_id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Total       decimal.Decimal `db:"total"`
}
