// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenClaims represents the claims contained in a JWT token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// TokenService defines the interface for JWT access token operations.
// Tokens are issued by the identity service; this service only validates them.
type TokenService interface {
	// GenerateAccessToken signs an access token for the user.
	GenerateAccessToken(ctx context.Context, userID uuid.UUID, email string) (string, error)

	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
