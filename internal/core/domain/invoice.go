package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus defines the possible lifecycle states of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "DRAFT"
	InvoiceSent    InvoiceStatus = "SENT"
	InvoiceUnpaid  InvoiceStatus = "UNPAID"
	InvoicePaid    InvoiceStatus = "PAID"
	InvoiceOverdue InvoiceStatus = "OVERDUE"
)

// DeriveInvoiceStatus computes an invoice's status from its payment state and
// due date. It is pure, total and idempotent: the same inputs always yield the
// same status. Callers must invoke it inside the same store transaction that
// records a payment-state change so the status never lags the payment.
func DeriveInvoiceStatus(isPaid bool, dueDate, now time.Time) InvoiceStatus {
	if isPaid {
		return InvoicePaid
	}
	if now.After(dueDate) {
		return InvoiceOverdue
	}
	return InvoiceUnpaid
}

// sweepableStatuses are the states the overdue sweep may move to OVERDUE.
// DRAFT is deliberately included: an unsent invoice past its due date becomes
// OVERDUE, matching the behaviour of the system this one replaces.
var sweepableStatuses = []InvoiceStatus{InvoiceDraft, InvoiceSent, InvoiceUnpaid}

// SweepableStatuses returns the statuses eligible for the overdue sweep.
func SweepableStatuses() []InvoiceStatus {
	out := make([]InvoiceStatus, len(sweepableStatuses))
	copy(out, sweepableStatuses)
	return out
}

// InvoiceItem is a single line on an invoice.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"` // Primary Key (UUID)
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice represents a company's invoice to a client. Client fields are a
// snapshot taken at issue time so later client edits don't rewrite history.
// Status is derived, never freely settable.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"` // Primary Key (UUID)
	CompanyID     string          `json:"companyID"`
	ClientID      string          `json:"clientID"`
	ClientName    string          `json:"clientName"`
	ClientEmail   string          `json:"clientEmail"`
	ClientTaxID   *string         `json:"clientTaxID,omitempty"`
	InvoiceNumber string          `json:"invoiceNumber"` // Unique per company
	Items         []InvoiceItem   `json:"items,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	IsPaid        bool            `json:"isPaid"`
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	Status        InvoiceStatus   `json:"status"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	AuditFields
}

// Validate checks the structural invariants of an invoice.
func (inv *Invoice) Validate() error {
	if inv.CompanyID == "" {
		return errors.New("invoice company ID is required")
	}
	if inv.ClientID == "" {
		return errors.New("invoice client ID is required")
	}
	if inv.DueDate.IsZero() {
		return errors.New("invoice due date is required")
	}
	if len(inv.Items) == 0 {
		return errors.New("invoice must have at least one item")
	}
	sum := decimal.Zero
	for _, item := range inv.Items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return errors.New("invoice item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return errors.New("invoice item unit price must not be negative")
		}
		if !item.Total.Equal(item.Quantity.Mul(item.UnitPrice)) {
			return errors.New("invoice item total does not match quantity * unit price")
		}
		sum = sum.Add(item.Total)
	}
	if !inv.TotalAmount.Equal(sum) {
		return errors.New("invoice total does not match sum of item totals")
	}
	return nil
}
