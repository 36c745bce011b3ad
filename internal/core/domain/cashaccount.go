package domain

import "github.com/shopspring/decimal"

// CashAccount is a named money pool belonging to a company. Balance is the
// running balance and is only ever mutated inside the store transaction that
// posts the affecting business transaction.
type CashAccount struct {
	AccountID      string          `json:"accountID"` // Primary Key (UUID)
	CompanyID      string          `json:"companyID"`
	Name           string          `json:"name"`
	CurrencyCode   string          `json:"currencyCode"` // e.g. "USD"
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Balance        decimal.Decimal `json:"balance"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}
