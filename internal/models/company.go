package models

import "database/sql"

// Company is the DB-layer representation of a company row.
type Company struct {
	CompanyID string         `db:"company_id"`
	Name      string         `db:"name"`
	TaxID     sql.NullString `db:"tax_id"`
	Email     string         `db:"email"`
	Phone     string         `db:"phone"`
	Address   string         `db:"address"`
	IsActive  bool           `db:"is_active"`
	AuditFields
}
