package repositories

import (
	"context"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts the order header and all of its items atomically.
	Create(ctx context.Context, order *models.Order) error
	// GetByID loads an order with its items.
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	// ListByUser loads a user's orders with their items and owner.
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error
	// Delete removes an order and its items.
	Delete(ctx context.Context, id uint) error

	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error)
	SumTotalByStatus(ctx context.Context, status models.OrderStatus) (decimal.Decimal, error)
}
