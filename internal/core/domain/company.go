package domain

// Company is the tenant boundary. Every tenant-scoped entity carries its
// CompanyID; companies are created by a SUPERADMIN and never deleted.
type Company struct {
	CompanyID string  `json:"companyID"` // Primary Key (UUID)
	Name      string  `json:"name"`
	TaxID     *string `json:"taxID,omitempty"` // Unique when set
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   string  `json:"address"`
	IsActive  bool    `json:"isActive"`
	AuditFields
}
