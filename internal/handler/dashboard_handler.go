package handler

import (
	"go-sitesafety-ws/internal/middleware"
	"go-sitesafety-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetOverview returns the monitoring view of one day
// Query params: date (YYYY-MM-DD, default today)
func (h *DashboardHandler) GetOverview(c *fiber.Ctx) error {
	selected, err := h.service.ParseDate(c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.service.Overview(middleware.Session(c).StoreID, selected)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// GetSummary asks the assistant for a summary of the day's logs
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	selected, err := h.service.ParseDate(c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	resp, err := h.service.Summary(c.UserContext(), middleware.Session(c).StoreID, selected)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *DashboardHandler) GetAlerts(c *fiber.Ctx) error {
	resp, err := h.service.Alerts(middleware.Session(c).StoreID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
