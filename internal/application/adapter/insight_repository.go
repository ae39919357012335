// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// InsightRepository defines the interface for generated insight storage.
type InsightRepository interface {
	// SaveInsights stores a batch of insights, replacing any with the same ID.
	SaveInsights(ctx context.Context, insights []*entity.Insight) error

	// FindByID retrieves an insight by its ID.
	// Returns domainerror.ErrInsightNotFound when it does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Insight, error)

	// FindActiveByUserID retrieves the user's insights that are neither
	// dismissed nor expired at now, newest first.
	FindActiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.Insight, error)

	// MarkDismissed records that the user dismissed the insight.
	MarkDismissed(ctx context.Context, id uuid.UUID, at time.Time) error

	// DeleteExpired removes insights that expired before now.
	// Returns the number of deleted insights.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// InsightCooldown suppresses insights already emitted for a user within a time window.
type InsightCooldown interface {
	// Acquire claims the signature for the user for ttl. It returns false when
	// the signature is still cooling down from an earlier evaluation.
	Acquire(ctx context.Context, userID uuid.UUID, signature string, ttl time.Duration) (bool, error)

	// Release drops a claim so the next evaluation can emit the insight again.
	Release(ctx context.Context, userID uuid.UUID, signature string) error
}
