package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the direction of a ledger entry.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Transaction is a ledger entry against a cash account. When linked to an
// invoice, posting it also advances the invoice's payment state.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	CompanyID       string          `json:"companyID"`
	AccountID       string          `json:"accountID"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"` // Always positive
	Description     string          `json:"description"`
	Category        string          `json:"category,omitempty"`
	InvoiceID       *string         `json:"invoiceID,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
	AuditFields
}

// SignedAmount returns the amount with the sign implied by the type:
// income adds to the account balance, expense subtracts.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Validate checks the structural invariants of a transaction.
func (t Transaction) Validate() error {
	if t.AccountID == "" {
		return errors.New("transaction account ID is required")
	}
	if t.Type != Income && t.Type != Expense {
		return errors.New("transaction type must be INCOME or EXPENSE")
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction amount must be positive")
	}
	if t.InvoiceID != nil && t.Type != Income {
		return errors.New("only income transactions may be linked to an invoice")
	}
	return nil
}
