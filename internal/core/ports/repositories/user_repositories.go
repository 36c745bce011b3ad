package repositories

import (
	"context"
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// UserRepository defines persistence operations for users.
// ListUsers takes the already-computed scope parameters (company restriction
// plus role narrowing); the access policy decides those upstream so the
// repository stays a plain data mapper.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error)
	ListUsers(ctx context.Context, companyID *string, roles []domain.Role, limit int, offset int) ([]domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string, updatedBy string, updatedAt time.Time) error
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}
