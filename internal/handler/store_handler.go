package handler

import (
	"go-sitesafety-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StoreHandler struct {
	storeService service.StoreService
}

func NewStoreHandler(storeService service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// GetStores returns the store picker, filtered by name
// GET /api/v1/stores?q=
func (h *StoreHandler) GetStores(c *fiber.Ctx) error {
	dir, err := h.storeService.Directory(c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dir)
}
