package handlers

import (
	"errors"
	"log"

	"storefront/internal/apperr"
	"storefront/internal/authz"
	"storefront/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error returned by a handler or middleware as a
// JSON body. Internal failures are logged with the request id and hidden
// behind a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if verr, ok := apperr.AsValidation(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": verr.Error(),
			"errors":  verr.Errors,
		})
	}

	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return message(c, fiber.StatusUnauthorized, "Unauthenticated.")
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return message(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, apperr.ErrForbidden):
		return message(c, fiber.StatusForbidden, "This action is unauthorized.")
	case errors.Is(err, apperr.ErrNotFound):
		return message(c, fiber.StatusNotFound, "Not Found")
	case errors.Is(err, apperr.ErrConflict):
		return message(c, fiber.StatusConflict, "The resource already exists.")
	case errors.As(err, &fiberErr):
		return message(c, fiberErr.Code, fiberErr.Message)
	}

	log.Printf("[%s] %s %s: %v", c.GetRespHeader(fiber.HeaderXRequestID), c.Method(), c.Path(), err)
	return message(c, fiber.StatusInternalServerError, "Server Error")
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// errInvalidBody is returned when the request body is not valid JSON.
var errInvalidBody = fiber.NewError(fiber.StatusBadRequest, "Invalid request body")

// parseBody decodes a JSON body into out. An empty body leaves out untouched
// so that required-field validation reports what is missing.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing request body for %s %s: %v", c.Method(), c.Path(), err)
		return errInvalidBody
	}
	return nil
}

// paramID reads a positive numeric :id. Anything else cannot name a row,
// so it is reported as not found.
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperr.ErrNotFound
	}
	return uint(id), nil
}

// principal returns the caller resolved by middleware.AuthRequired.
func principal(c *fiber.Ctx) (authz.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return p, apperr.ErrUnauthenticated
	}
	return p, nil
}
