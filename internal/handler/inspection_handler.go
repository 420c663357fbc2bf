package handler

import (
	"strconv"

	"go-sitesafety-ws/internal/inspection"
	"go-sitesafety-ws/internal/middleware"
	"go-sitesafety-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InspectionHandler struct {
	service service.InspectionService
}

func NewInspectionHandler(s service.InspectionService) *InspectionHandler {
	return &InspectionHandler{service: s}
}

type DraftRequest struct {
	SiteID string `json:"site_id"`
}

type PhotoRequest struct {
	Image string `json:"image"` // data URL or bare base64
}

func draftNotFound(c *fiber.Ctx) error {
	return c.Status(404).JSON(fiber.Map{"error": inspection.ErrDraftNotFound.Error(), "action": "return_to_list"})
}

// CreateDraft opens a draft for a visible site
// POST /api/v1/inspections/drafts
func (h *InspectionHandler) CreateDraft(c *fiber.Ctx) error {
	var req DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	id, err := uuid.Parse(req.SiteID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": service.ErrSiteNotFound.Error(), "action": "return_to_list"})
	}
	view, err := h.service.CreateDraft(middleware.Session(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(view)
}

func (h *InspectionHandler) GetDraft(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return draftNotFound(c)
	}
	view, err := h.service.GetDraft(middleware.Session(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *InspectionHandler) UpdateDraft(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return draftNotFound(c)
	}
	var req service.UpdateDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	view, err := h.service.UpdateDraft(middleware.Session(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// AddPhoto attaches a photo; the first one starts the AI suggestion
// POST /api/v1/inspections/drafts/:id/photos
func (h *InspectionHandler) AddPhoto(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return draftNotFound(c)
	}
	var req PhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	view, err := h.service.AddPhoto(c.UserContext(), middleware.Session(c), id, req.Image)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(view)
}

func (h *InspectionHandler) RemovePhoto(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return draftNotFound(c)
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": inspection.ErrPhotoIndex.Error()})
	}
	view, err := h.service.RemovePhoto(middleware.Session(c), id, index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *InspectionHandler) SubmitDraft(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return draftNotFound(c)
	}
	entry, err := h.service.SubmitDraft(c.UserContext(), middleware.Session(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Inspection submitted", "data": entry})
}

func (h *InspectionHandler) DiscardDraft(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return draftNotFound(c)
	}
	if err := h.service.DiscardDraft(middleware.Session(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Draft discarded"})
}

// Submit records a complete inspection in one request
// POST /api/v1/inspections
func (h *InspectionHandler) Submit(c *fiber.Ctx) error {
	var req service.SubmitInspectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	entry, err := h.service.Submit(c.UserContext(), middleware.Session(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Inspection submitted", "data": entry})
}
