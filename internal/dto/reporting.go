package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// --- Reporting DTOs ---

// CashFlowParams bounds the monthly cash flow report.
type CashFlowParams struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// MonthlyCashFlowResponse is one month's aggregated income and expense.
type MonthlyCashFlowResponse struct {
	Month   string          `json:"month"` // YYYY-MM
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// CashFlowReportResponse wraps the monthly cash flow series.
type CashFlowReportResponse struct {
	Months []MonthlyCashFlowResponse `json:"months"`
}

// ToCashFlowReportResponse converts domain aggregates to the report DTO.
func ToCashFlowReportResponse(rows []domain.MonthlyCashFlow) CashFlowReportResponse {
	months := make([]MonthlyCashFlowResponse, len(rows))
	for i, r := range rows {
		months[i] = MonthlyCashFlowResponse{
			Month:   r.Month.Format("2006-01"),
			Income:  r.Income,
			Expense: r.Expense,
			Net:     r.Income.Sub(r.Expense),
		}
	}
	return CashFlowReportResponse{Months: months}
}

// InvoiceStatusBreakdownResponse maps each invoice status to its count.
type InvoiceStatusBreakdownResponse struct {
	Counts map[domain.InvoiceStatus]int64 `json:"counts"`
	Total  int64                          `json:"total"`
}

// ToInvoiceStatusBreakdownResponse converts status buckets to the report DTO.
// Every status appears in the map, zero-filled when no invoices hold it.
func ToInvoiceStatusBreakdownResponse(rows []domain.InvoiceStatusCount) InvoiceStatusBreakdownResponse {
	counts := map[domain.InvoiceStatus]int64{
		domain.InvoiceDraft:   0,
		domain.InvoiceSent:    0,
		domain.InvoiceUnpaid:  0,
		domain.InvoicePaid:    0,
		domain.InvoiceOverdue: 0,
	}
	var total int64
	for _, r := range rows {
		counts[r.Status] = r.Count
		total += r.Count
	}
	return InvoiceStatusBreakdownResponse{Counts: counts, Total: total}
}
