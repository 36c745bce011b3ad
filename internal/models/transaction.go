package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the DB-layer representation of a ledger entry row.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	CompanyID       string          `db:"company_id"`
	AccountID       string          `db:"account_id"`
	Type            string          `db:"type"`
	Amount          decimal.Decimal `db:"amount"`
	Description     string          `db:"description"`
	Category        string          `db:"category"`
	InvoiceID       sql.NullString  `db:"invoice_id"`
	TransactionDate time.Time       `db:"transaction_date"`
	AuditFields
}
