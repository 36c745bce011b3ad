package models

import "github.com/shopspring/decimal"

// CashAccount is the DB-layer representation of a cash account row.
type CashAccount struct {
	AccountID      string          `db:"account_id"`
	CompanyID      string          `db:"company_id"`
	Name           string          `db:"name"`
	CurrencyCode   string          `db:"currency_code"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
	Balance        decimal.Decimal `db:"balance"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}
