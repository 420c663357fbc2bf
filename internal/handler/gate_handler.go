package handler

import (
	"go-sitesafety-ws/internal/middleware"
	"go-sitesafety-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type GateHandler struct {
	gateService service.GateService
}

func NewGateHandler(gateService service.GateService) *GateHandler {
	return &GateHandler{gateService: gateService}
}

// CodeRequest carries any of the three passcodes
type CodeRequest struct {
	Code string `json:"code"`
}

type StoreRequest struct {
	StoreID string `json:"store_id"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

func (h *GateHandler) scope(c *fiber.Ctx, resp *service.ScopeResponse, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Unlock opens the app with the global passcode
// POST /api/v1/gate/unlock
func (h *GateHandler) Unlock(c *fiber.Ctx) error {
	var req CodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	resp, err := h.gateService.Unlock(req.Code)
	return h.scope(c, resp, err)
}

// ChooseStore marks the store whose code will be asked for
// POST /api/v1/gate/store
func (h *GateHandler) ChooseStore(c *fiber.Ctx) error {
	var req StoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	resp, err := h.gateService.ChooseStore(middleware.Session(c), req.StoreID)
	return h.scope(c, resp, err)
}

// VerifyStore checks the chosen store's access code
// POST /api/v1/gate/store/verify
func (h *GateHandler) VerifyStore(c *fiber.Ctx) error {
	var req CodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	resp, err := h.gateService.SubmitStoreCode(middleware.Session(c), req.Code)
	return h.scope(c, resp, err)
}

// PickRole enters field work
// POST /api/v1/gate/role
func (h *GateHandler) PickRole(c *fiber.Ctx) error {
	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	resp, err := h.gateService.PickRole(middleware.Session(c), req.Role)
	return h.scope(c, resp, err)
}

// EnterMonitoring enters the monitoring center with the support passcode
// POST /api/v1/gate/monitoring
func (h *GateHandler) EnterMonitoring(c *fiber.Ctx) error {
	var req CodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	resp, err := h.gateService.EnterMonitoring(middleware.Session(c), req.Code)
	return h.scope(c, resp, err)
}

func (h *GateHandler) Back(c *fiber.Ctx) error {
	resp, err := h.gateService.Back(middleware.Session(c))
	return h.scope(c, resp, err)
}

func (h *GateHandler) ChangeStore(c *fiber.Ctx) error {
	resp, err := h.gateService.ChangeStore(middleware.Session(c))
	return h.scope(c, resp, err)
}

func (h *GateHandler) Lock(c *fiber.Ctx) error {
	resp, err := h.gateService.Lock()
	return h.scope(c, resp, err)
}

// Current describes the session carried by the token
// GET /api/v1/gate/session
func (h *GateHandler) Current(c *fiber.Ctx) error {
	resp, err := h.gateService.Describe(middleware.Session(c))
	return h.scope(c, resp, err)
}
