// Package profile contains behavioral profile use cases.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
)

// GetProfileInput represents the input for reading a profile.
type GetProfileInput struct {
	UserID uuid.UUID
}

// GetProfileOutput represents the stored profile.
type GetProfileOutput struct {
	Profile *entity.Profile
}

// GetProfileUseCase reads the user's behavioral profile.
type GetProfileUseCase struct {
	profileRepo adapter.ProfileRepository
}

// NewGetProfileUseCase creates a new GetProfileUseCase instance.
func NewGetProfileUseCase(profileRepo adapter.ProfileRepository) *GetProfileUseCase {
	return &GetProfileUseCase{profileRepo: profileRepo}
}

// Execute performs the lookup.
func (uc *GetProfileUseCase) Execute(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	profile, err := uc.profileRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrProfileNotFound) {
			return nil, domainerror.NewProfileError(
				domainerror.ErrCodeProfileNotFound,
				"profile not found",
				domainerror.ErrProfileNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &GetProfileOutput{Profile: profile}, nil
}
