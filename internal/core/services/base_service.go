package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/policy"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	"github.com/invobook/invoicing_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	userRepo portsrepo.UserRepository
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// ResolveCaller loads the calling user and folds it into the policy caller
// used for access decisions. An unknown or deleted caller is unauthorized,
// not merely not found.
func (s *BaseService) ResolveCaller(ctx context.Context, callerID string) (policy.Caller, error) {
	user, err := s.userRepo.FindUserByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return policy.Caller{}, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to resolve caller", slog.String("caller_id", callerID))
		return policy.Caller{}, err
	}
	return policy.Caller{
		UserID:    user.UserID,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	}, nil
}

// RequireCompany resolves the caller and returns the company the caller is
// scoped to. SUPERADMIN callers have no implicit company, so tenant-scoped
// operations reject them unless they pass an explicit company elsewhere.
func (s *BaseService) RequireCompany(ctx context.Context, callerID string) (policy.Caller, string, error) {
	caller, err := s.ResolveCaller(ctx, callerID)
	if err != nil {
		return policy.Caller{}, "", err
	}
	if caller.CompanyID == nil || *caller.CompanyID == "" {
		return caller, "", apperrors.ErrForbidden
	}
	return caller, *caller.CompanyID, nil
}
