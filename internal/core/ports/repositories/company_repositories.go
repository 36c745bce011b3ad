package repositories

import (
	"context"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	SaveCompany(ctx context.Context, company domain.Company) error
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	FindCompanyByTaxID(ctx context.Context, taxID string) (*domain.Company, error)
	ListCompanies(ctx context.Context, limit int, offset int) ([]domain.Company, error)
	UpdateCompany(ctx context.Context, company domain.Company) error
}
