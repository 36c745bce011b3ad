package dto

import (
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// --- User / Employee DTOs ---

// CreateEmployeeRequest defines data for creating an employee account.
// CompanyID is honored only for SUPERADMIN callers; ADMIN callers always
// create employees in their own company.
type CreateEmployeeRequest struct {
	Email     string      `json:"email" binding:"required,email"`
	Name      string      `json:"name" binding:"required"`
	Password  string      `json:"password" binding:"required,min=8"`
	Role      domain.Role `json:"role" binding:"required,oneof=USER ADMIN"`
	CompanyID *string     `json:"companyID,omitempty"`
}

// UpdateUserRequest defines updatable user fields.
type UpdateUserRequest struct {
	Name *string `json:"name,omitempty"`
}

// ResetPasswordRequest defines data for an administrative password reset.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePasswordRequest defines data for a self-service password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ListUsersParams holds pagination parameters for employee listings.
type ListUsersParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID    string      `json:"userID"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	CompanyID *string     `json:"companyID,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		CreatedAt: u.CreatedAt,
	}
}

// ListUsersResponse wraps a list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to DTO.
func ToListUsersResponse(us []domain.User) ListUsersResponse {
	list := make([]UserResponse, len(us))
	for i, u := range us {
		list[i] = ToUserResponse(&u)
	}
	return ListUsersResponse{Users: list}
}
