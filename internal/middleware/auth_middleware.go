package middleware

import (
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/authz"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired.
const (
	LocalPrincipal = "principal"
	LocalUser      = "user"
)

// AuthRequired is a Fiber middleware that resolves the bearer token and
// rejects the request with 401 when it is missing, malformed or revoked.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Expected format: "Bearer <token>"
		scheme, token, found := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return apperr.ErrUnauthenticated
		}

		principal, user, err := authService.Resolve(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return err
		}

		c.Locals(LocalPrincipal, principal)
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// AdminOnly rejects authenticated non-admins with 403. It must run after
// AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok {
			return apperr.ErrUnauthenticated
		}
		if err := authz.AdminOnly(principal); err != nil {
			return err
		}
		return c.Next()
	}
}

// PrincipalFrom returns the principal stored by AuthRequired.
func PrincipalFrom(c *fiber.Ctx) (authz.Principal, bool) {
	p, ok := c.Locals(LocalPrincipal).(authz.Principal)
	return p, ok
}

// UserFrom returns the user stored by AuthRequired.
func UserFrom(c *fiber.Ctx) (*models.User, bool) {
	u, ok := c.Locals(LocalUser).(*models.User)
	return u, ok && u != nil
}
