package storage

import (
	"context"
)

//go:generate moq -out auth_mock.go . AuthStorage

// AuthStorage defines interface for storing the bearer token of the remote data service.
// Tokens are issued elsewhere (sign-in is not part of this client); the store only
// keeps what it was given.
type AuthStorage interface {
	// SaveAuth stores authentication data as-is
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored authentication data
	// Returns ErrAuthNotFound if no auth data exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored authentication data
	DeleteAuth(ctx context.Context) error
}

// AuthData represents authentication information in storage
type AuthData struct {
	AccessToken string `json:"access_token"`
	Subject     string `json:"subject,omitempty"`
	ExpiresAt   int64  `json:"expires_at,omitempty"` // unix seconds, 0 = unknown
}
