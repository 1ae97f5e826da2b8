package services

import (
	"context"
	"log"
	"time"

	"storefront/internal/models"
)

// Order event routing keys.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
	EventOrderDeleted       = "order.deleted"
)

// EventPublisher delivers JSON payloads to downstream consumers.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, payload any) error
}

// OrderEvent is the payload of every order event.
type OrderEvent struct {
	Type        string             `json:"type"`
	OrderID     uint               `json:"order_id"`
	UserID      uint               `json:"user_id"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount models.Money       `json:"total_amount"`
	ItemCount   int                `json:"item_count"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// publishOrderEvent is best effort: the order is already committed, so a
// broker failure is logged and swallowed.
func publishOrderEvent(ctx context.Context, events EventPublisher, eventType string, order *models.Order) {
	if events == nil {
		return
	}
	event := OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		OccurredAt:  time.Now().UTC(),
	}
	if err := events.PublishJSON(ctx, eventType, event); err != nil {
		log.Printf("Warning: failed to publish %s event for order %d: %v", eventType, order.ID, err)
	}
}
