// handlers/errors.go - Error kind to HTTP status translation. The core
// never sees transport codes; they exist only at this boundary.
package handlers

import (
	"log"

	"github.com/HoneyBadgered/alchemy-sub004/apperr"

	"github.com/gofiber/fiber/v2"
)

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindInvalidState, apperr.KindValidation, apperr.KindInsufficientBalance:
		return fiber.StatusBadRequest
	case apperr.KindAlreadyClaimed, apperr.KindOutOfStock:
		return fiber.StatusConflict
	case apperr.KindTierTooLow:
		return fiber.StatusForbidden
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal || kind == apperr.KindUnknown {
		log.Printf("internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal server error",
		})
	}
	return c.Status(statusOf(kind)).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    kind.String(),
	})
}
