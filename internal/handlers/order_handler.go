package handlers

import (
	"fmt"

	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes. /stats is registered before
// /:id so it is not captured as an id.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/stats", h.HandleGetOrderStats)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Put("/:id", h.HandleUpdateOrderStatus)
	orderRoutes.Patch("/:id", h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
}

// HandleGetOrders lists the caller's own orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListOwn(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// HandleCreateOrder places an order from the cart in the body. The body is
// decoded loosely so that every malformed line can be reported.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	payload := map[string]any{}
	if err := parseBody(c, &payload); err != nil {
		return err
	}

	order, err := h.service.Place(c.UserContext(), p, payload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrderStats reports order aggregates.
func (h *OrderHandler) HandleGetOrderStats(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	report, err := h.service.Stats(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	order, err := h.service.Get(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var updateData struct {
		Status any `json:"status"`
	}
	if err := parseBody(c, &updateData); err != nil {
		return err
	}
	// Non-string values fall through to the closed-set check.
	status := ""
	switch v := updateData.Status.(type) {
	case nil:
	case string:
		status = v
	default:
		status = fmt.Sprint(v)
	}

	order, err := h.service.SetStatus(c.UserContext(), p, id, status)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// HandleDeleteOrder removes an order and its items.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), p, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Order deleted successfully"})
}
