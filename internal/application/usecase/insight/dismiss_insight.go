package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/application/adapter"
	domainerror "github.com/finance-tracker/insights/internal/domain/error"
)

// DismissInsightInput represents the input for dismissing an insight.
type DismissInsightInput struct {
	InsightID uuid.UUID
	UserID    uuid.UUID
}

// DismissInsightUseCase hides a stored insight from future recommendations.
type DismissInsightUseCase struct {
	insightRepo adapter.InsightRepository
	now         func() time.Time
}

// NewDismissInsightUseCase creates a new DismissInsightUseCase instance.
func NewDismissInsightUseCase(insightRepo adapter.InsightRepository) *DismissInsightUseCase {
	return &DismissInsightUseCase{
		insightRepo: insightRepo,
		now:         time.Now,
	}
}

// Execute performs the dismissal. Dismissing twice is a no-op.
func (uc *DismissInsightUseCase) Execute(ctx context.Context, input DismissInsightInput) error {
	insight, err := uc.insightRepo.FindByID(ctx, input.InsightID)
	if err != nil {
		if errors.Is(err, domainerror.ErrInsightNotFound) {
			return domainerror.NewInsightError(
				domainerror.ErrCodeInsightNotFound,
				"insight not found",
				domainerror.ErrInsightNotFound,
			)
		}
		return fmt.Errorf("failed to find insight: %w", err)
	}

	if insight.UserID != input.UserID {
		return domainerror.NewInsightError(
			domainerror.ErrCodeUnauthorizedInsight,
			"insight belongs to another user",
			domainerror.ErrUnauthorizedInsightAccess,
		)
	}

	if insight.IsDismissed() {
		return nil
	}

	if err := uc.insightRepo.MarkDismissed(ctx, input.InsightID, uc.now().UTC()); err != nil {
		return fmt.Errorf("failed to dismiss insight: %w", err)
	}
	return nil
}
