// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/insights/internal/application/adapter"
	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	txModel := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).Create(txModel)
	return result.Error
}

// FindByUserSince retrieves the user's transactions dated on or after since.
func (r *transactionRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*entity.Transaction, error) {
	var models []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date >= ?", since).
		Order("date ASC").
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(models))
	for i := range models {
		transactions[i] = models[i].ToEntity()
	}
	return transactions, nil
}
