package handler

import (
	"errors"
	"log"

	"go-sitesafety-ws/internal/gate"
	"go-sitesafety-ws/internal/inspection"
	"go-sitesafety-ws/internal/service"
	internalsync "go-sitesafety-ws/internal/sync"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto HTTP statuses. Anything unknown is a
// failed collaborator (database, feed) and is logged.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gate.ErrWrongCode), errors.Is(err, service.ErrInvalidScope):
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, gate.ErrPasscodeRequired), errors.Is(err, inspection.ErrNotFieldRole):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, gate.ErrInvalidTransition), errors.Is(err, gate.ErrNoStoreChosen):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrSiteNotFound),
		errors.Is(err, inspection.ErrDraftNotFound),
		errors.Is(err, internalsync.ErrStoreMismatch):
		return c.Status(404).JSON(fiber.Map{"error": err.Error(), "action": "return_to_list"})

	case errors.Is(err, service.ErrStoreNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidDateFormat),
		errors.Is(err, service.ErrEndDateBeforeStart),
		errors.Is(err, gate.ErrUnknownRole),
		errors.Is(err, inspection.ErrWorkTypeRequired),
		errors.Is(err, inspection.ErrTooManyPhotos),
		errors.Is(err, inspection.ErrPhotoIndex),
		errors.Is(err, inspection.ErrEmptyPhoto),
		errors.Is(err, inspection.ErrInvalidRisk):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(502).JSON(fiber.Map{"error": "Upstream failure, try again"})
}
