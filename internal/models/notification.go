package models

import (
	"database/sql"
	"time"
)

// Notification is the DB-layer representation of a notification row.
// Metadata is stored as JSONB and marshalled at the repository boundary.
type Notification struct {
	NotificationID string         `db:"notification_id"`
	UserID         string         `db:"user_id"`
	CompanyID      sql.NullString `db:"company_id"`
	Type           string         `db:"type"`
	Priority       string         `db:"priority"`
	Title          string         `db:"title"`
	Message        string         `db:"message"`
	Link           string         `db:"link"`
	Metadata       []byte         `db:"metadata"`
	IsRead         bool           `db:"is_read"`
	CreatedAt      time.Time      `db:"created_at"`
}

// NotificationPreference is the DB-layer representation of a preference row.
type NotificationPreference struct {
	UserID    string    `db:"user_id"`
	Type      string    `db:"type"`
	Enabled   bool      `db:"enabled"`
	UpdatedAt time.Time `db:"updated_at"`
}
