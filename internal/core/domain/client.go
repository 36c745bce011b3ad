package domain

// Client is a company's counterparty (customer or supplier).
// Deletion is a soft flag, never physical removal.
type Client struct {
	ClientID  string  `json:"clientID"` // Primary Key (UUID)
	CompanyID string  `json:"companyID"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	TaxID     *string `json:"taxID,omitempty"`
	Address   string  `json:"address"`
	IsDeleted bool    `json:"isDeleted"`
	AuditFields
}
