package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(db *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// MonthlyCashFlow aggregates posted transactions into per-month income and
// expense sums. Months with no activity are absent from the result, the
// service layer zero-fills.
func (r *PgxReportingRepository) MonthlyCashFlow(ctx context.Context, companyID string, from time.Time, to time.Time) ([]domain.MonthlyCashFlow, error) {
	query := `
        SELECT date_trunc('month', transaction_date) AS month,
               COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME'), 0) AS income,
               COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE'), 0) AS expense
        FROM transactions
        WHERE company_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
        GROUP BY 1
        ORDER BY 1;
    `
	rows, err := r.Pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly cash flow: %w", err)
	}
	defer rows.Close()

	buckets := []domain.MonthlyCashFlow{}
	for rows.Next() {
		var b domain.MonthlyCashFlow
		if err := rows.Scan(&b.Month, &b.Income, &b.Expense); err != nil {
			return nil, fmt.Errorf("failed to scan cash flow row: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flow rows: %w", err)
	}
	return buckets, nil
}

func (r *PgxReportingRepository) InvoiceStatusCounts(ctx context.Context, companyID string) ([]domain.InvoiceStatusCount, error) {
	query := `
        SELECT status, COUNT(*)
        FROM invoices
        WHERE company_id = $1
        GROUP BY status;
    `
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice status counts: %w", err)
	}
	defer rows.Close()

	counts := []domain.InvoiceStatusCount{}
	for rows.Next() {
		var c domain.InvoiceStatusCount
		var status string
		if err := rows.Scan(&status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count row: %w", err)
		}
		c.Status = domain.InvoiceStatus(status)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status count rows: %w", err)
	}
	return counts, nil
}
