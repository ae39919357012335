package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
	"github.com/finance-tracker/insights/internal/domain/personalization"
)

// GetDailyRecommendationsInput represents the input for listing recommendations.
type GetDailyRecommendationsInput struct {
	UserID uuid.UUID
}

// GetDailyRecommendationsOutput represents the personalized, capped insight list.
type GetDailyRecommendationsOutput struct {
	Insights []*entity.Insight
	Total    int // active insights before filtering and capping
}

// GetDailyRecommendationsUseCase selects the stored insights worth showing today.
type GetDailyRecommendationsUseCase struct {
	profileRepo     adapter.ProfileRepository
	insightRepo     adapter.InsightRepository
	personalization *personalization.Service
	now             func() time.Time
}

// NewGetDailyRecommendationsUseCase creates a new GetDailyRecommendationsUseCase instance.
func NewGetDailyRecommendationsUseCase(
	profileRepo adapter.ProfileRepository,
	insightRepo adapter.InsightRepository,
	personalizationService *personalization.Service,
) *GetDailyRecommendationsUseCase {
	return &GetDailyRecommendationsUseCase{
		profileRepo:     profileRepo,
		insightRepo:     insightRepo,
		personalization: personalizationService,
		now:             time.Now,
	}
}

// Execute loads the active insights and applies the user's preferences.
// A user without a profile has no recommendations.
func (uc *GetDailyRecommendationsUseCase) Execute(
	ctx context.Context,
	input GetDailyRecommendationsInput,
) (*GetDailyRecommendationsOutput, error) {
	profile, err := uc.profileRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrProfileNotFound) {
			return &GetDailyRecommendationsOutput{Insights: []*entity.Insight{}}, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	active, err := uc.insightRepo.FindActiveByUserID(ctx, input.UserID, uc.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load insights: %w", err)
	}

	return &GetDailyRecommendationsOutput{
		Insights: uc.personalization.DailyRecommendations(active, profile),
		Total:    len(active),
	}, nil
}
