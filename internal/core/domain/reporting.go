package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyCashFlow aggregates posted transactions for one calendar month.
type MonthlyCashFlow struct {
	Month   time.Time       `json:"month"` // First day of the month, UTC
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// InvoiceStatusCount is one bucket of the invoice status breakdown.
type InvoiceStatusCount struct {
	Status InvoiceStatus `json:"status"`
	Count  int64         `json:"count"`
}
