package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// --- Transaction DTOs ---

// CreateTransactionRequest defines data for posting a transaction.
type CreateTransactionRequest struct {
	AccountID       string          `json:"accountID" binding:"required,uuid"`
	Type            string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	InvoiceID       *string         `json:"invoiceID,omitempty" binding:"omitempty,uuid"`
	TransactionDate *time.Time      `json:"transactionDate,omitempty"`
}

// ListTransactionsParams holds listing parameters for transactions.
type ListTransactionsParams struct {
	AccountID string `form:"accountID"`
	Type      string `form:"type"`
	Limit     int    `form:"limit"`
	NextToken string `form:"nextToken"`
}

// TransactionResponse defines data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	CompanyID       string                 `json:"companyID"`
	AccountID       string                 `json:"accountID"`
	Type            domain.TransactionType `json:"type"`
	Amount          decimal.Decimal        `json:"amount"`
	Description     string                 `json:"description"`
	Category        string                 `json:"category,omitempty"`
	InvoiceID       *string                `json:"invoiceID,omitempty"`
	TransactionDate time.Time              `json:"transactionDate"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// ToTransactionResponse converts domain.Transaction to DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		CompanyID:       t.CompanyID,
		AccountID:       t.AccountID,
		Type:            t.Type,
		Amount:          t.Amount,
		Description:     t.Description,
		Category:        t.Category,
		InvoiceID:       t.InvoiceID,
		TransactionDate: t.TransactionDate,
		CreatedAt:       t.CreatedAt,
	}
}

// ListTransactionsResponse wraps a page of transactions with a continuation token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"nextToken,omitempty"`
}

// ToListTransactionsResponse converts a page of domain.Transaction to DTO.
func ToListTransactionsResponse(ts []domain.Transaction, nextToken string) ListTransactionsResponse {
	list := make([]TransactionResponse, len(ts))
	for i := range ts {
		list[i] = ToTransactionResponse(&ts[i])
	}
	return ListTransactionsResponse{Transactions: list, NextToken: nextToken}
}
