package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// --- Invoice DTOs ---

// InvoiceItemRequest is a single line item on an invoice create request.
// Totals are computed server-side from quantity and unit price.
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateInvoiceRequest defines data for creating a draft invoice.
type CreateInvoiceRequest struct {
	ClientID  string               `json:"clientID" binding:"required,uuid"`
	IssueDate time.Time            `json:"issueDate"`
	DueDate   time.Time            `json:"dueDate" binding:"required"`
	Notes     string               `json:"notes"`
	Items     []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest defines updatable fields on a DRAFT invoice.
// Items, when present, replace the existing line items entirely.
type UpdateInvoiceRequest struct {
	ClientID  *string              `json:"clientID,omitempty" binding:"omitempty,uuid"`
	IssueDate *time.Time           `json:"issueDate,omitempty"`
	DueDate   *time.Time           `json:"dueDate,omitempty"`
	Notes     *string              `json:"notes,omitempty"`
	Items     []InvoiceItemRequest `json:"items,omitempty" binding:"omitempty,min=1,dive"`
}

// ListInvoicesParams holds listing parameters for invoices.
type ListInvoicesParams struct {
	Status    string `form:"status"`
	ClientID  string `form:"clientID"`
	Limit     int    `form:"limit"`
	NextToken string `form:"nextToken"`
}

// InvoiceItemResponse defines data returned for an invoice line item.
type InvoiceItemResponse struct {
	ItemID      string          `json:"itemID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse defines data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID     string                `json:"invoiceID"`
	CompanyID     string                `json:"companyID"`
	ClientID      string                `json:"clientID"`
	ClientName    string                `json:"clientName"`
	ClientEmail   string                `json:"clientEmail"`
	ClientTaxID   *string               `json:"clientTaxID,omitempty"`
	InvoiceNumber string                `json:"invoiceNumber"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	AmountPaid    decimal.Decimal       `json:"amountPaid"`
	Status        domain.InvoiceStatus  `json:"status"`
	IssueDate     time.Time             `json:"issueDate"`
	DueDate       time.Time             `json:"dueDate"`
	PaidAt        *time.Time            `json:"paidAt,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// ToInvoiceResponse converts domain.Invoice to DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ItemID:      item.ItemID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		CompanyID:     inv.CompanyID,
		ClientID:      inv.ClientID,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		ClientTaxID:   inv.ClientTaxID,
		InvoiceNumber: inv.InvoiceNumber,
		Items:         items,
		TotalAmount:   inv.TotalAmount,
		AmountPaid:    inv.AmountPaid,
		Status:        inv.Status,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		PaidAt:        inv.PaidAt,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
	}
}

// ListInvoicesResponse wraps a page of invoices with a continuation token.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken string            `json:"nextToken,omitempty"`
}

// ToListInvoicesResponse converts a page of domain.Invoice to DTO.
func ToListInvoicesResponse(invs []domain.Invoice, nextToken string) ListInvoicesResponse {
	list := make([]InvoiceResponse, len(invs))
	for i := range invs {
		list[i] = ToInvoiceResponse(&invs[i])
	}
	return ListInvoicesResponse{Invoices: list, NextToken: nextToken}
}

// RecordPaymentRequest defines data for recording a payment on an invoice.
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	CashAccountID string          `json:"cashAccountID" binding:"required,uuid"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	Description   string          `json:"description"`
}
