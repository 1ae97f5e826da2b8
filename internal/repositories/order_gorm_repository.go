package repositories

import (
	"context"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create writes the header, then bulk-inserts the items, in a single
// transaction. Any failure rolls both back.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	items := order.Items
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return translate(err, "failed to create order")
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return translate(err, "failed to create items of order %d", order.ID)
			}
		}
		order.Items = items
		return nil
	})
}

// GetByID retrieves an order with its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&order, id).Error
	if err != nil {
		return nil, translate(err, "failed to get order %d", id)
	}
	return &order, nil
}

// ListByUser retrieves a user's orders with items and owner.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("User").
		Where("user_id = ?", userID).
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, "failed to list orders of user %d", userID)
	}
	return orders, nil
}

// UpdateStatus sets the status of an order.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error, "failed to update status of order %d", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "failed to update status of order %d", id)
	}
	return nil
}

// Delete removes the items, then the order, in one transaction.
func (r *GORMOrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return translate(err, "failed to delete items of order %d", id)
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return translate(res.Error, "failed to delete order %d", id)
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "failed to delete order %d", id)
		}
		return nil
	})
}

// CountAll counts every order.
func (r *GORMOrderRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, translate(err, "failed to count orders")
	}
	return n, nil
}

// CountByStatus counts orders in status.
func (r *GORMOrderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, translate(err, "failed to count %s orders", status)
	}
	return n, nil
}

// SumTotalByStatus sums total_amount over orders in status. No rows sums to zero.
func (r *GORMOrderRepository) SumTotalByStatus(ctx context.Context, status models.OrderStatus) (decimal.Decimal, error) {
	var sum decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ?", status).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, translate(err, "failed to sum %s orders", status)
	}
	return sum, nil
}
