package repositories

import (
	"context"
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines persistence operations for invoices and their items.
type InvoiceRepository interface {
	// SaveInvoice inserts the invoice and its items atomically and assigns the
	// next per-company invoice number.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error)
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoicesByCompany(ctx context.Context, companyID string, status *domain.InvoiceStatus, clientID *string, limit int, nextToken *string) ([]domain.Invoice, *string, error)
	// UpdateDraftInvoice replaces the mutable fields of a DRAFT invoice,
	// including its items.
	UpdateDraftInvoice(ctx context.Context, invoice domain.Invoice) error
	// MarkInvoiceSent moves a DRAFT invoice to SENT.
	MarkInvoiceSent(ctx context.Context, invoiceID string, updatedBy string, now time.Time) (*domain.Invoice, error)
	// MarkInvoicePaid records full payment and re-derives the status inside a
	// single store transaction, so the invoice is never visible paid-but-unpaid.
	MarkInvoicePaid(ctx context.Context, invoiceID string, updatedBy string, now time.Time) (*domain.Invoice, error)
	DeleteDraftInvoice(ctx context.Context, invoiceID string) error
	// SweepOverdue moves every DRAFT/SENT/UNPAID invoice with dueDate < now to
	// OVERDUE in one statement and returns the swept invoices. Idempotent.
	SweepOverdue(ctx context.Context, now time.Time) ([]domain.Invoice, error)
}

// InvoicePaymentApplier applies a payment amount to an invoice inside an
// existing transaction. Used by the transaction repository so an
// invoice-linked posting updates account balance and invoice payment state
// in one atomic unit.
type InvoicePaymentApplier interface {
	ApplyPaymentInTx(ctx context.Context, tx pgx.Tx, invoiceID string, amount decimal.Decimal, updatedBy string, now time.Time) (*domain.Invoice, error)
}
