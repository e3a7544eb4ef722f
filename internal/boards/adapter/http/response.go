package http

import (
	sharederrors "pinstack/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors onto the HTTP taxonomy: 400 malformed input,
// 401 unauthenticated, 403 forbidden, 404 not found, 409 conflict, 500 store
// failure. Handlers return before any mutation on 403/409 so writes are never
// issued against a known-invalid precondition.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case sharederrors.IsNotFound(err):
		status = fiber.StatusNotFound
	case sharederrors.IsAuthorization(err):
		status = fiber.StatusForbidden
	case sharederrors.IsAuthentication(err):
		status = fiber.StatusUnauthorized
	case sharederrors.IsConflict(err):
		status = fiber.StatusConflict
	case sharederrors.IsValidation(err):
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
