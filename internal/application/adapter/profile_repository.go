// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// ProfileRepository defines the interface for behavioral profile persistence operations.
type ProfileRepository interface {
	// FindByUserID retrieves the profile of a user.
	// Returns domainerror.ErrProfileNotFound when the user has no profile.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)

	// Upsert creates or replaces the profile of a user.
	Upsert(ctx context.Context, profile *entity.Profile) error

	// ListAll retrieves every stored profile.
	ListAll(ctx context.Context) ([]*entity.Profile, error)
}
