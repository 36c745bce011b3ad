package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
)

// companyService implements the CompanySvcFacade interface
type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepository
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo portsrepo.CompanyRepository, userRepo portsrepo.UserRepository) portssvc.CompanySvcFacade {
	return &companyService{
		BaseService: BaseService{userRepo: userRepo},
		companyRepo: companyRepo,
	}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) GetCompanyByID(ctx context.Context, callerID string, companyID string) (*domain.Company, error) {
	caller, err := s.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	// SUPERADMIN sees every company; everyone else only their own.
	if caller.Role != domain.RoleSuperadmin {
		if caller.CompanyID == nil || *caller.CompanyID != companyID {
			// NotFound rather than Forbidden to obscure existence.
			return nil, apperrors.ErrNotFound
		}
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

func (s *companyService) ListCompanies(ctx context.Context, callerID string, limit, offset int) ([]domain.Company, error) {
	caller, err := s.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleSuperadmin {
		return nil, apperrors.ErrForbidden
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	companies, err := s.companyRepo.ListCompanies(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies")
		return nil, err
	}
	return companies, nil
}

func (s *companyService) CreateCompany(ctx context.Context, callerID string, req dto.CreateCompanyRequest) (*domain.Company, error) {
	caller, err := s.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleSuperadmin {
		return nil, apperrors.ErrForbidden
	}

	if req.TaxID != nil && *req.TaxID != "" {
		if _, err := s.companyRepo.FindCompanyByTaxID(ctx, *req.TaxID); err == nil {
			return nil, apperrors.ErrDuplicate
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now()
	company := domain.Company{
		CompanyID: uuid.NewString(),
		Name:      req.Name,
		TaxID:     req.TaxID,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     callerID,
			LastUpdatedAt: now,
			LastUpdatedBy: callerID,
		},
	}
	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to save company", slog.String("company_id", company.CompanyID))
		return nil, err
	}

	s.LogInfo(ctx, "Company created", slog.String("company_id", company.CompanyID))
	return &company, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, callerID string, companyID string, req dto.UpdateCompanyRequest) (*domain.Company, error) {
	caller, err := s.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	// SUPERADMIN may edit any company; an ADMIN only their own.
	switch caller.Role {
	case domain.RoleSuperadmin:
	case domain.RoleAdmin:
		if caller.CompanyID == nil || *caller.CompanyID != companyID {
			return nil, apperrors.ErrForbidden
		}
	default:
		return nil, apperrors.ErrForbidden
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Email != nil {
		company.Email = *req.Email
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	company.LastUpdatedAt = time.Now()
	company.LastUpdatedBy = callerID

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to update company", slog.String("company_id", companyID))
		return nil, err
	}
	return company, nil
}

func (s *companyService) DeactivateCompany(ctx context.Context, callerID string, companyID string) error {
	caller, err := s.ResolveCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != domain.RoleSuperadmin {
		return apperrors.ErrForbidden
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return err
	}

	company.IsActive = false
	company.LastUpdatedAt = time.Now()
	company.LastUpdatedBy = callerID
	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to deactivate company", slog.String("company_id", companyID))
		return err
	}

	s.LogInfo(ctx, "Company deactivated", slog.String("company_id", companyID))
	return nil
}
