package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service
func NewReportingService(reportingRepo portsrepo.ReportingRepository, userRepo portsrepo.UserRepository) portssvc.ReportingService {
	return &reportingService{
		BaseService:   BaseService{userRepo: userRepo},
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) MonthlyCashFlow(ctx context.Context, callerID string, from, to time.Time) ([]domain.MonthlyCashFlow, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(-1, 0, 0)
	}
	if from.After(to) {
		return nil, fmt.Errorf("report period start is after its end: %w", apperrors.ErrValidation)
	}

	rows, err := s.reportingRepo.MonthlyCashFlow(ctx, companyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to build cash flow report", slog.String("company_id", companyID))
		return nil, err
	}
	return rows, nil
}

func (s *reportingService) InvoiceStatusBreakdown(ctx context.Context, callerID string) ([]domain.InvoiceStatusCount, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.InvoiceStatusCounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to build invoice status breakdown", slog.String("company_id", companyID))
		return nil, err
	}
	return rows, nil
}
