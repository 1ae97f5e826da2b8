package services

import (
	"context"
	"fmt"

	"storefront/internal/apperr"
	"storefront/internal/authz"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	events      EventPublisher
}

// NewOrderService creates a new OrderService. events may be nil, in which
// case no order events are published.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
	}
}

// StatsReport aggregates every order in the system.
type StatsReport struct {
	TotalOrders     int64        `json:"total_orders"`
	CompletedOrders int64        `json:"completed_orders"`
	PendingOrders   int64        `json:"pending_orders"`
	CancelledOrders int64        `json:"cancelled_orders"`
	TotalRevenue    models.Money `json:"total_revenue"`
}

// Place turns a cart payload into a persisted pending order owned by p.
// Unit prices always come from the catalog; a price sent by the client is
// ignored. The header and its items are written in one transaction.
func (s *OrderService) Place(ctx context.Context, p authz.Principal, payload map[string]any) (*models.Order, error) {
	lines, verr := parseOrderLines(payload)

	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]bool, len(lines))
	for _, l := range lines {
		if l.productID != 0 && !seen[l.productID] {
			seen[l.productID] = true
			ids = append(ids, l.productID)
		}
	}

	products := map[uint]models.Product{}
	if len(ids) > 0 {
		found, err := s.productRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, apperr.Internal("look up ordered products", err)
		}
		products = found
	}
	for _, l := range lines {
		if l.productID == 0 {
			continue
		}
		if _, ok := products[l.productID]; !ok {
			verr.Add(l.field("product_id"), "The selected "+l.field("product_id")+" is invalid.")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		item := models.OrderItem{
			ProductID: l.productID,
			Quantity:  l.quantity,
			Price:     products[l.productID].Price,
		}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}
	if models.NewMoney(total).Exceeds() {
		return nil, apperr.Validation("items", fmt.Sprintf("The order total must not be greater than %s.", models.MaxAmount.StringFixed(2)))
	}

	order := &models.Order{
		UserID:      p.ID,
		Status:      models.OrderStatusPending,
		TotalAmount: models.NewMoney(total),
		Items:       items,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, apperr.Internal("place order", err)
	}

	publishOrderEvent(ctx, s.events, EventOrderCreated, order)
	return order, nil
}

// ListOwn returns the orders placed by p, never nil.
func (s *OrderService) ListOwn(ctx context.Context, p authz.Principal) ([]models.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, apperr.Internal("list orders", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Get returns one order, visible to its owner and to admins.
func (s *OrderService) Get(ctx context.Context, p authz.Principal, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get order", err)
	}
	if err := authz.SameOrAdmin(p, order.UserID); err != nil {
		return nil, err
	}
	return order, nil
}

// SetStatus moves an order to status. Admins only; any transition between
// the known statuses is allowed.
func (s *OrderService) SetStatus(ctx context.Context, p authz.Principal, id uint, status string) (*models.Order, error) {
	if err := authz.AdminOnly(p); err != nil {
		return nil, err
	}
	next := models.OrderStatus(status)
	switch {
	case isBlank(status):
		return nil, apperr.Validation("status", "The status field is required.")
	case !next.Valid():
		return nil, apperr.Validation("status", "The selected status is invalid.")
	}

	if _, err := s.orderRepo.GetByID(ctx, id); err != nil {
		return nil, storeErr("get order", err)
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, storeErr("update order status", err)
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("reload order", err)
	}

	publishOrderEvent(ctx, s.events, EventOrderStatusUpdated, order)
	return order, nil
}

// Delete removes an order and its items. Admins only.
func (s *OrderService) Delete(ctx context.Context, p authz.Principal, id uint) error {
	if err := authz.AdminOnly(p); err != nil {
		return err
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return storeErr("get order", err)
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return storeErr("delete order", err)
	}

	publishOrderEvent(ctx, s.events, EventOrderDeleted, order)
	return nil
}

// Stats aggregates order counts and completed revenue. Admins only.
func (s *OrderService) Stats(ctx context.Context, p authz.Principal) (*StatsReport, error) {
	if err := authz.AdminOnly(p); err != nil {
		return nil, err
	}

	var report StatsReport
	var err error
	if report.TotalOrders, err = s.orderRepo.CountAll(ctx); err != nil {
		return nil, apperr.Internal("count orders", err)
	}
	counts := map[models.OrderStatus]*int64{
		models.OrderStatusCompleted: &report.CompletedOrders,
		models.OrderStatusPending:   &report.PendingOrders,
		models.OrderStatusCancelled: &report.CancelledOrders,
	}
	for _, status := range models.OrderStatuses {
		n, err := s.orderRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, apperr.Internal("count "+string(status)+" orders", err)
		}
		*counts[status] = n
	}
	revenue, err := s.orderRepo.SumTotalByStatus(ctx, models.OrderStatusCompleted)
	if err != nil {
		return nil, apperr.Internal("sum revenue", err)
	}
	report.TotalRevenue = models.NewMoney(revenue)
	return &report, nil
}
