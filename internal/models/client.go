package models

import "database/sql"

// Client is the DB-layer representation of a client row.
type Client struct {
	ClientID  string         `db:"client_id"`
	CompanyID string         `db:"company_id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	Phone     string         `db:"phone"`
	TaxID     sql.NullString `db:"tax_id"`
	Address   string         `db:"address"`
	IsDeleted bool           `db:"is_deleted"`
	AuditFields
}
