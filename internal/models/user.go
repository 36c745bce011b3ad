package models

import (
	"database/sql"
	"time"
)

// User is the DB-layer representation of a user row.
type User struct {
	UserID         string         `db:"user_id"`
	Email          string         `db:"email"`
	Name           string         `db:"name"`
	PasswordHash   string         `db:"password_hash"`
	Role           string         `db:"role"`
	CompanyID      sql.NullString `db:"company_id"`
	AuthProvider   string         `db:"auth_provider"`
	ProviderUserID sql.NullString `db:"provider_user_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
