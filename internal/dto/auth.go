package dto

import "time"

// --- Auth DTOs ---

// LoginRequest defines credentials for a local login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token and the authenticated user.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// RefreshResponse carries a freshly rotated access token.
type RefreshResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RegisterRequest bootstraps a new company together with its first ADMIN user.
type RegisterRequest struct {
	CompanyName string  `json:"companyName" binding:"required"`
	TaxID       *string `json:"taxID,omitempty"`
	Email       string  `json:"email" binding:"required,email"`
	Name        string  `json:"name" binding:"required"`
	Password    string  `json:"password" binding:"required,min=8"`
}

// GoogleTokenSignInRequest carries a Google ID token obtained client-side.
type GoogleTokenSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}
