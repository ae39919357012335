// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByUserSince retrieves the user's transactions dated on or after since,
	// ordered by date and then creation time.
	FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*entity.Transaction, error)
}
