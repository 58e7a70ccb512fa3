package identity

import (
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/infrastructure/auth"
)

// RegisterInput contains registration data for a new company and its admin
type RegisterInput struct {
	CompanyName string `json:"company_name" binding:"required,min=1,max=200"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
}

// LoginInput contains login credentials
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshInput carries the refresh token
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResult is returned by login, registration and refresh
type AuthResult struct {
	User    *identity.User    `json:"user"`
	Company *identity.Company `json:"company,omitempty"`
	Tokens  *auth.TokenPair   `json:"tokens"`
}

// SessionResult is returned by a session update
type SessionResult struct {
	User        *identity.User `json:"user"`
	AccessToken string         `json:"access_token"`
}
