package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/core/policy"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
	"github.com/invobook/invoicing_app/internal/utils"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo    portsrepo.UserRepository
	companyRepo portsrepo.CompanyRepository
	notifier    portssvc.NotificationDispatchSvc
}

// NewUserService creates a new user service. The notifier is optional;
// without one, employee-created and password-reset events are simply not
// announced.
func NewUserService(userRepo portsrepo.UserRepository, companyRepo portsrepo.CompanyRepository, notifier portssvc.NotificationDispatchSvc) portssvc.UserSvcFacade {
	return &userService{
		BaseService: BaseService{userRepo: userRepo},
		userRepo:    userRepo,
		companyRepo: companyRepo,
		notifier:    notifier,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by email")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListEmployees(ctx context.Context, callerID string, params dto.ListUsersParams) ([]domain.User, error) {
	caller, err := s.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	scope := policy.ScopeFilter(caller)
	if scope.None {
		return nil, apperrors.ErrForbidden
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var companyID *string
	if !scope.All {
		companyID = &scope.CompanyID
	}

	users, err := s.userRepo.ListUsers(ctx, companyID, scope.Roles, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list employees")
		return nil, err
	}
	return users, nil
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ErrDuplicate
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check email uniqueness during registration")
		return nil, err
	}

	if req.TaxID != nil && *req.TaxID != "" {
		if _, err := s.companyRepo.FindCompanyByTaxID(ctx, *req.TaxID); err == nil {
			return nil, apperrors.ErrDuplicate
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to check tax ID uniqueness during registration")
			return nil, err
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password during registration")
		return nil, apperrors.ErrInternal
	}

	now := time.Now()
	newUserID := uuid.NewString()
	newCompanyID := uuid.NewString()

	company := domain.Company{
		CompanyID: newCompanyID,
		Name:      req.CompanyName,
		TaxID:     req.TaxID,
		Email:     req.Email,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}
	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to save company during registration")
		return nil, err
	}

	user := domain.User{
		UserID:       newUserID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CompanyID:    &newCompanyID,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user during registration")
		return nil, err
	}

	s.LogInfo(ctx, "Company registered",
		slog.String("company_id", newCompanyID),
		slog.String("user_id", newUserID))
	return &user, nil
}

func (s *userService) CreateEmployee(ctx context.Context, callerID string, req dto.CreateEmployeeRequest) (*domain.User, error) {
	caller, err := s.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if !policy.CanCreateEmployee(caller, req.Role) {
		s.LogDebug(ctx, "Employee creation denied by policy",
			slog.String("caller_role", string(caller.Role)),
			slog.String("requested_role", string(req.Role)))
		return nil, apperrors.ErrForbidden
	}

	// ADMIN callers always create within their own company. The request's
	// companyID is honored only for SUPERADMIN.
	var companyID *string
	switch caller.Role {
	case domain.RoleSuperadmin:
		if req.CompanyID == nil || *req.CompanyID == "" {
			return nil, fmt.Errorf("companyID is required for superadmin-created employees: %w", apperrors.ErrValidation)
		}
		companyID = req.CompanyID
	default:
		companyID = caller.CompanyID
	}
	if companyID == nil || *companyID == "" {
		return nil, apperrors.ErrForbidden
	}

	if _, err := s.companyRepo.FindCompanyByID(ctx, *companyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("company not found: %w", apperrors.ErrValidation)
		}
		return nil, err
	}

	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.ErrDuplicate
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash employee password")
		return nil, apperrors.ErrInternal
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		CompanyID:    companyID,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     callerID,
			LastUpdatedAt: now,
			LastUpdatedBy: callerID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save employee", slog.String("user_id", user.UserID))
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, domain.Notification{
			UserID:    user.UserID,
			CompanyID: companyID,
			Type:      domain.NotifyEmployeeCreated,
			Priority:  domain.PriorityNormal,
			Title:     "Welcome aboard",
			Message:   "Your account has been created by an administrator.",
		})
	}

	s.LogInfo(ctx, "Employee created",
		slog.String("user_id", user.UserID),
		slog.String("role", string(user.Role)))
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, callerID string, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	caller, err := s.ResolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Users may edit themselves; anyone else must fall inside the caller's
	// scope filter.
	if caller.UserID != userID {
		scope := policy.ScopeFilter(caller)
		targetCompany := ""
		if user.CompanyID != nil {
			targetCompany = *user.CompanyID
		}
		if !scope.Allows(targetCompany) || !scope.AllowsRole(user.Role) {
			return nil, apperrors.ErrForbidden
		}
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = callerID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, callerID string, userID string) error {
	caller, err := s.ResolveCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.UserID == userID {
		return fmt.Errorf("cannot delete own account: %w", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	scope := policy.ScopeFilter(caller)
	targetCompany := ""
	if user.CompanyID != nil {
		targetCompany = *user.CompanyID
	}
	if !scope.Allows(targetCompany) || !scope.AllowsRole(user.Role) {
		return apperrors.ErrForbidden
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), callerID); err != nil {
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return err
	}
	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID))
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, callerID string, userID string, req dto.ResetPasswordRequest) error {
	caller, err := s.ResolveCaller(ctx, callerID)
	if err != nil {
		return err
	}

	target, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !policy.CanResetPassword(caller, policy.Target{UserID: target.UserID, Role: target.Role, CompanyID: target.CompanyID}) {
		return apperrors.ErrForbidden
	}
	// ADMIN callers additionally stay inside their company.
	if caller.Role == domain.RoleAdmin {
		scope := policy.ScopeFilter(caller)
		targetCompany := ""
		if target.CompanyID != nil {
			targetCompany = *target.CompanyID
		}
		if !scope.Allows(targetCompany) {
			return apperrors.ErrForbidden
		}
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash reset password")
		return apperrors.ErrInternal
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash, callerID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to reset password", slog.String("user_id", userID))
		return err
	}

	// The reset invalidates any outstanding refresh token.
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		s.LogError(ctx, err, "Failed to clear refresh token after reset", slog.String("user_id", userID))
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, domain.Notification{
			UserID:    target.UserID,
			CompanyID: target.CompanyID,
			Type:      domain.NotifyPasswordReset,
			Priority:  domain.PriorityHigh,
			Title:     "Password reset",
			Message:   "Your password was reset by an administrator.",
		})
	}

	s.LogInfo(ctx, "Password reset", slog.String("user_id", userID))
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, callerID string, req dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindUserByID(ctx, callerID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrUnauthorized
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash new password")
		return apperrors.ErrInternal
	}

	if err := s.userRepo.UpdatePassword(ctx, callerID, hash, callerID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to change password", slog.String("user_id", callerID))
		return err
	}
	s.LogInfo(ctx, "Password changed", slog.String("user_id", callerID))
	return nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.ClearRefreshToken(ctx, userID)
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if user.AuthProvider != domain.ProviderLocal || user.PasswordHash == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (s *userService) AuthenticateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	user, err := s.userRepo.FindUserByProviderDetails(ctx, string(domain.ProviderGoogle), info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Fall back to an email match for accounts created locally, linking the
	// Google identity on first sign-in. Unknown emails are rejected: Google
	// sign-in never auto-registers.
	user, err = s.userRepo.FindUserByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	user.AuthProvider = domain.ProviderGoogle
	user.ProviderUserID = &info.ID
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = user.UserID
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to link Google identity", slog.String("user_id", user.UserID))
		return nil, err
	}
	return user, nil
}
