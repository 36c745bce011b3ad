package services

import (
	"context"
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice with its items.
	GetInvoiceByID(ctx context.Context, callerID string, invoiceID string) (*domain.Invoice, error)

	// ListInvoices lists the caller's company's invoices, newest first,
	// with token-based pagination and optional status / client filters.
	ListInvoices(ctx context.Context, callerID string, params dto.ListInvoicesParams) ([]domain.Invoice, string, error)
}

// InvoiceWriterSvc defines write operations for invoices
type InvoiceWriterSvc interface {
	// CreateInvoice creates a DRAFT invoice, snapshotting the client's
	// details and assigning the next invoice number for the company.
	CreateInvoice(ctx context.Context, callerID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error)

	// UpdateInvoice edits a DRAFT invoice. Any other status is rejected.
	UpdateInvoice(ctx context.Context, callerID string, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error)

	// DeleteInvoice removes a DRAFT invoice. Any other status is rejected.
	DeleteInvoice(ctx context.Context, callerID string, invoiceID string) error
}

// InvoiceLifecycleSvc defines status transitions for invoices
type InvoiceLifecycleSvc interface {
	// SendInvoice moves a DRAFT invoice to SENT.
	SendInvoice(ctx context.Context, callerID string, invoiceID string) (*domain.Invoice, error)

	// RecordPayment applies a payment to an invoice inside one store
	// transaction: a ledger entry is posted, the cash account balance moves
	// and the invoice's payment state and status are recomputed.
	RecordPayment(ctx context.Context, callerID string, invoiceID string, req dto.RecordPaymentRequest) (*domain.Invoice, error)

	// MarkPaid settles whatever remains outstanding on an invoice in one
	// store transaction, without posting a ledger entry.
	MarkPaid(ctx context.Context, callerID string, invoiceID string) (*domain.Invoice, error)

	// SweepOverdue moves every unpaid invoice past its due date to OVERDUE
	// and returns the invoices it transitioned.
	SweepOverdue(ctx context.Context, now time.Time) ([]domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceLifecycleSvc
}
