package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// --- Cash account DTOs ---

// CreateCashAccountRequest defines data for creating a cash account.
type CreateCashAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	CurrencyCode   string          `json:"currencyCode" binding:"required,currencycode"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// UpdateCashAccountRequest defines updatable cash account fields.
// Balances are never set directly; they move only through transactions.
type UpdateCashAccountRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// CashAccountResponse defines data returned for a cash account.
type CashAccountResponse struct {
	AccountID      string          `json:"accountID"`
	CompanyID      string          `json:"companyID"`
	Name           string          `json:"name"`
	CurrencyCode   string          `json:"currencyCode"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Balance        decimal.Decimal `json:"balance"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToCashAccountResponse converts domain.CashAccount to DTO.
func ToCashAccountResponse(a *domain.CashAccount) CashAccountResponse {
	return CashAccountResponse{
		AccountID:      a.AccountID,
		CompanyID:      a.CompanyID,
		Name:           a.Name,
		CurrencyCode:   a.CurrencyCode,
		InitialBalance: a.InitialBalance,
		Balance:        a.Balance,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
	}
}

// ListCashAccountsResponse wraps a list of cash accounts.
type ListCashAccountsResponse struct {
	Accounts []CashAccountResponse `json:"accounts"`
}

// ToListCashAccountsResponse converts a slice of domain.CashAccount to DTO.
func ToListCashAccountsResponse(as []domain.CashAccount) ListCashAccountsResponse {
	list := make([]CashAccountResponse, len(as))
	for i := range as {
		list[i] = ToCashAccountResponse(&as[i])
	}
	return ListCashAccountsResponse{Accounts: list}
}
