package services

import (
	"context"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/dto"
)

// CompanyReaderSvc defines read operations for companies
type CompanyReaderSvc interface {
	// GetCompanyByID retrieves a company the caller is allowed to see.
	GetCompanyByID(ctx context.Context, callerID string, companyID string) (*domain.Company, error)

	// ListCompanies lists all companies. SUPERADMIN only.
	ListCompanies(ctx context.Context, callerID string, limit, offset int) ([]domain.Company, error)
}

// CompanyWriterSvc defines write operations for companies
type CompanyWriterSvc interface {
	// CreateCompany creates a new tenant. SUPERADMIN only.
	CreateCompany(ctx context.Context, callerID string, req dto.CreateCompanyRequest) (*domain.Company, error)

	// UpdateCompany updates company details.
	UpdateCompany(ctx context.Context, callerID string, companyID string, req dto.UpdateCompanyRequest) (*domain.Company, error)

	// DeactivateCompany marks a company inactive. SUPERADMIN only.
	DeactivateCompany(ctx context.Context, callerID string, companyID string) error
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
}
