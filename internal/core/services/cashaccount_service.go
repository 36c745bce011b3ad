package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
)

// cashAccountService implements the CashAccountSvcFacade interface
type cashAccountService struct {
	BaseService
	accountRepo portsrepo.CashAccountRepository
}

// NewCashAccountService creates a new cash account service
func NewCashAccountService(accountRepo portsrepo.CashAccountRepository, userRepo portsrepo.UserRepository) portssvc.CashAccountSvcFacade {
	return &cashAccountService{
		BaseService: BaseService{userRepo: userRepo},
		accountRepo: accountRepo,
	}
}

var _ portssvc.CashAccountSvcFacade = (*cashAccountService)(nil)

func (s *cashAccountService) GetCashAccountByID(ctx context.Context, callerID string, accountID string) (*domain.CashAccount, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindCashAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find cash account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

func (s *cashAccountService) ListCashAccounts(ctx context.Context, callerID string) ([]domain.CashAccount, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListCashAccountsByCompany(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash accounts", slog.String("company_id", companyID))
		return nil, err
	}
	return accounts, nil
}

func (s *cashAccountService) CreateCashAccount(ctx context.Context, callerID string, req dto.CreateCashAccountRequest) (*domain.CashAccount, error) {
	_, companyID, err := s.RequireCompany(ctx, callerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := domain.CashAccount{
		AccountID:      uuid.NewString(),
		CompanyID:      companyID,
		Name:           req.Name,
		CurrencyCode:   strings.ToUpper(req.CurrencyCode),
		InitialBalance: req.InitialBalance,
		Balance:        req.InitialBalance,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     callerID,
			LastUpdatedAt: now,
			LastUpdatedBy: callerID,
		},
	}
	if err := s.accountRepo.SaveCashAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save cash account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Cash account created",
		slog.String("account_id", account.AccountID),
		slog.String("company_id", companyID))
	return &account, nil
}

func (s *cashAccountService) UpdateCashAccount(ctx context.Context, callerID string, accountID string, req dto.UpdateCashAccountRequest) (*domain.CashAccount, error) {
	account, err := s.GetCashAccountByID(ctx, callerID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = callerID

	if err := s.accountRepo.UpdateCashAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update cash account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}
