package state

import (
	"context"
	"time"
)

// Credentials represents the OAuth2 credentials of a single Withings user.
type Credentials struct {
	// UserID is the Withings user identifier the tokens belong to.
	UserID string
	// AccessToken is the Bearer token used to access the Withings API.
	AccessToken string
	// RefreshToken is used to acquire a new access token.
	RefreshToken string
	// TokenType is the token type reported by the token endpoint, typically "Bearer".
	TokenType string
	// Scope is the comma-separated list of scopes granted to the tokens.
	Scope string
	// ExpiresAt marks the end of validity period for the access token.
	// A new access token must be acquired with the refresh token past this time.
	ExpiresAt time.Time
	// Demo indicates the tokens belong to the Withings demo user.
	Demo bool
}

// State defines the interface for persisting the per-user OAuth2 credentials.
type State interface {
	GetCredentials(context.Context) (*Credentials, error)
	PutCredentials(context.Context, *Credentials) error
}
