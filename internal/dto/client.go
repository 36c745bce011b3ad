package dto

import (
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// --- Client DTOs ---

// CreateClientRequest defines data for creating a client.
type CreateClientRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"omitempty,email"`
	Phone   string  `json:"phone"`
	TaxID   *string `json:"taxID,omitempty"`
	Address string  `json:"address"`
}

// UpdateClientRequest defines updatable client fields.
type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	TaxID   *string `json:"taxID,omitempty"`
	Address *string `json:"address,omitempty"`
}

// ListClientsParams holds listing parameters for clients.
type ListClientsParams struct {
	Limit          int  `form:"limit"`
	Offset         int  `form:"offset"`
	IncludeDeleted bool `form:"includeDeleted"`
}

// ClientResponse defines data returned for a client.
type ClientResponse struct {
	ClientID  string    `json:"clientID"`
	CompanyID string    `json:"companyID"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	TaxID     *string   `json:"taxID,omitempty"`
	Address   string    `json:"address"`
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToClientResponse converts domain.Client to DTO.
func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:  c.ClientID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		TaxID:     c.TaxID,
		Address:   c.Address,
		IsDeleted: c.IsDeleted,
		CreatedAt: c.CreatedAt,
	}
}

// ListClientsResponse wraps a list of clients.
type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// ToListClientsResponse converts a slice of domain.Client to DTO.
func ToListClientsResponse(cs []domain.Client) ListClientsResponse {
	list := make([]ClientResponse, len(cs))
	for i, c := range cs {
		list[i] = ToClientResponse(&c)
	}
	return ListClientsResponse{Clients: list}
}
