package services

import (
	"context"
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListEmployees lists the users the caller may see, scoped by the caller's
	// role: SUPERADMIN sees USER and ADMIN across companies, ADMIN sees USER
	// within their own company.
	ListEmployees(ctx context.Context, callerID string, params dto.ListUsersParams) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateEmployee creates a new employee account on behalf of the caller.
	CreateEmployee(ctx context.Context, callerID string, req dto.CreateEmployeeRequest) (*domain.User, error)

	// UpdateUser updates an existing user.
	UpdateUser(ctx context.Context, callerID string, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// UpdateRefreshToken updates the refresh token details for a user.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the refresh token for a user.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeleteUser marks a user as deleted (soft delete).
	DeleteUser(ctx context.Context, callerID string, userID string) error
}

// UserPasswordSvc defines password management operations
type UserPasswordSvc interface {
	// ResetPassword sets a new password for another user. Callers can never
	// reset their own password through this path.
	ResetPassword(ctx context.Context, callerID string, userID string, req dto.ResetPasswordRequest) error

	// ChangePassword changes the caller's own password after verifying the
	// current one.
	ChangePassword(ctx context.Context, callerID string, req dto.ChangePasswordRequest) error
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// Register bootstraps a new company together with its first ADMIN user.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	// AuthenticateGoogleUser signs in an existing user matched by Google
	// identity. Unknown identities are rejected, not auto-registered.
	AuthenticateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserPasswordSvc
	UserAuthSvc
}
