package repositories

import (
	"context"
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// ReportingRepository defines read-only aggregate queries for dashboards.
type ReportingRepository interface {
	MonthlyCashFlow(ctx context.Context, companyID string, from time.Time, to time.Time) ([]domain.MonthlyCashFlow, error)
	InvoiceStatusCounts(ctx context.Context, companyID string) ([]domain.InvoiceStatusCount, error)
}
