package dto

import (
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// --- Company DTOs ---

// CreateCompanyRequest defines data for creating a new company (tenant).
type CreateCompanyRequest struct {
	Name    string  `json:"name" binding:"required"`
	TaxID   *string `json:"taxID,omitempty"`
	Email   string  `json:"email" binding:"omitempty,email"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
}

// UpdateCompanyRequest defines updatable company fields.
type UpdateCompanyRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// CompanyResponse defines data returned for a company.
type CompanyResponse struct {
	CompanyID string    `json:"companyID"`
	Name      string    `json:"name"`
	TaxID     *string   `json:"taxID,omitempty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToCompanyResponse converts domain.Company to DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID: c.CompanyID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}

// ListCompaniesResponse wraps a list of companies.
type ListCompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

// ToListCompaniesResponse converts a slice of domain.Company to DTO.
func ToListCompaniesResponse(cs []domain.Company) ListCompaniesResponse {
	list := make([]CompanyResponse, len(cs))
	for i, c := range cs {
		list[i] = ToCompanyResponse(&c)
	}
	return ListCompaniesResponse{Companies: list}
}
