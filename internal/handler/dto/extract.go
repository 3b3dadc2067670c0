// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/mcextract/mcextract/internal/model"
)

// LoginRequest represents the request body for authentication.
type LoginRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Subdomain    string `json:"subdomain"`
	AccountMID   string `json:"accountMID"`
}

// Credentials converts the request to domain credentials.
func (r LoginRequest) Credentials() model.Credentials {
	return model.Credentials{
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		Subdomain:    r.Subdomain,
		AccountMID:   r.AccountMID,
	}
}

// LoginResponse carries the issued token. ExpiresAt tells the caller when
// to re-authenticate; the server does not refresh tokens.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	Subdomain   string    `json:"subdomain"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
}

// ErrorResponse represents an API error with optional upstream details.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
