package insight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finance-tracker/insights/internal/application/adapter"
)

// PurgeExpiredInsightsUseCase deletes stored insights past their expiry.
type PurgeExpiredInsightsUseCase struct {
	insightRepo adapter.InsightRepository
}

// NewPurgeExpiredInsightsUseCase creates a new PurgeExpiredInsightsUseCase instance.
func NewPurgeExpiredInsightsUseCase(insightRepo adapter.InsightRepository) *PurgeExpiredInsightsUseCase {
	return &PurgeExpiredInsightsUseCase{insightRepo: insightRepo}
}

// Execute removes every insight expired at now and returns how many were deleted.
func (uc *PurgeExpiredInsightsUseCase) Execute(ctx context.Context, now time.Time) (int64, error) {
	deleted, err := uc.insightRepo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired insights: %w", err)
	}
	if deleted > 0 {
		slog.Info("Purged expired insights", "count", deleted)
	}
	return deleted, nil
}
