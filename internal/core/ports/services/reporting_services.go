package services

import (
	"context"
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// MonthlyCashFlow aggregates income and expense per calendar month for
	// the caller's company over the given period.
	MonthlyCashFlow(ctx context.Context, callerID string, from, to time.Time) ([]domain.MonthlyCashFlow, error)

	// InvoiceStatusBreakdown counts the caller's company's invoices per status.
	InvoiceStatusBreakdown(ctx context.Context, callerID string) ([]domain.InvoiceStatusCount, error)
}
