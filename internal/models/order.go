package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every legal status.
var OrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled}

// Valid reports whether s is a legal order status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderItem is one line of an order. Price is the unit price captured when
// the order was placed, not a live link to the catalog.
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     Money     `json:"price" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineTotal is Price x Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a customer order. Deleting an order removes its items.
type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	UserID      uint        `json:"user_id" gorm:"not null;index"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(16);not null;default:pending;index"`
	TotalAmount Money       `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	User        *User       `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}
