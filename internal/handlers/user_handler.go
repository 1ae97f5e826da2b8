package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes. Every route needs a caller;
// role checks happen in UserService.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users", auth)
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Patch("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleGetUsers lists every user.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	users, err := h.service.List(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// HandleCreateUser creates an account with any role.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req services.CreateUserInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.service.Create(c.UserContext(), p, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetUser returns one user.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// HandleUpdateUser applies a partial update.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req services.UpdateUserInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.service.Update(c.UserContext(), p, id, req)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// HandleDeleteUser removes a user with its orders and tokens.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
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
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
