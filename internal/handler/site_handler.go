package handler

import (
	"go-sitesafety-ws/internal/middleware"
	"go-sitesafety-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SiteHandler struct {
	service service.SiteService
}

func NewSiteHandler(s service.SiteService) *SiteHandler {
	return &SiteHandler{service: s}
}

// actor names who changed a record: the store and role of the session
func actor(c *fiber.Ctx) string {
	sess := middleware.Session(c)
	return sess.StoreID + "/" + string(sess.Role)
}

func siteID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func (h *SiteHandler) GetSites(c *fiber.Ctx) error {
	sess := middleware.Session(c)
	sites, err := h.service.List(sess.StoreID, sess.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sites)
}

func (h *SiteHandler) GetSite(c *fiber.Ctx) error {
	id, ok := siteID(c)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": service.ErrSiteNotFound.Error(), "action": "return_to_list"})
	}
	sess := middleware.Session(c)
	site, err := h.service.Get(sess.StoreID, sess.Role, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(site)
}

func (h *SiteHandler) CreateSite(c *fiber.Ctx) error {
	var req service.CreateSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	site, err := h.service.Create(c.UserContext(), middleware.Session(c).StoreID, &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Site created", "data": site})
}

func (h *SiteHandler) UpdateSite(c *fiber.Ctx) error {
	id, ok := siteID(c)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": service.ErrSiteNotFound.Error(), "action": "return_to_list"})
	}
	var req service.UpdateSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	site, err := h.service.Update(c.UserContext(), middleware.Session(c).StoreID, id, &req, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Site updated", "data": site})
}

func (h *SiteHandler) DeleteSite(c *fiber.Ctx) error {
	id, ok := siteID(c)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": service.ErrSiteNotFound.Error(), "action": "return_to_list"})
	}
	if err := h.service.Delete(c.UserContext(), middleware.Session(c).StoreID, id, actor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Site deleted"})
}
