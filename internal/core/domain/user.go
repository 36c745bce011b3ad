package domain

import "time"

// Role defines the closed set of roles a user can hold.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperadmin Role = "SUPERADMIN"
)

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents an actor in the application.
// Every non-SUPERADMIN user belongs to exactly one company; CompanyID is nil
// only for SUPERADMIN users.
type User struct {
	UserID                 string       `json:"userID"` // Primary Key (UUID)
	Email                  string       `json:"email"`  // Unique
	Name                   string       `json:"name"`
	PasswordHash           string       `json:"-"`
	Role                   Role         `json:"role"`
	CompanyID              *string      `json:"companyID,omitempty"`
	AuthProvider           AuthProvider `json:"authProvider"`
	ProviderUserID         *string      `json:"-"`
	RefreshTokenHash       string       `json:"-"`
	RefreshTokenExpiryTime *time.Time   `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// GoogleUserInfo holds the subset of the Google userinfo payload we consume.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
