package handler

import (
	"go-sitesafety-ws/internal/gate"
	"go-sitesafety-ws/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Gate       *GateHandler
	Store      *StoreHandler
	Site       *SiteHandler
	Inspection *InspectionHandler
	Dashboard  *DashboardHandler
	WS         *WSHandler
}

// RegisterRoutes mounts the API under /api/v1 and the websocket under /ws
func RegisterRoutes(app *fiber.App, h Handlers, decoder middleware.ScopeDecoder) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/gate/unlock", h.Gate.Unlock)

	// ============ SCOPED ROUTES ============
	scoped := api.Group("", middleware.RequireScope(decoder))

	scoped.Get("/stores", h.Store.GetStores)
	scoped.Get("/gate/session", h.Gate.Current)
	scoped.Post("/gate/store", h.Gate.ChooseStore)
	scoped.Post("/gate/store/verify", h.Gate.VerifyStore)
	scoped.Post("/gate/role", h.Gate.PickRole)
	scoped.Post("/gate/monitoring", h.Gate.EnterMonitoring)
	scoped.Post("/gate/back", h.Gate.Back)
	scoped.Post("/gate/change-store", h.Gate.ChangeStore)
	scoped.Post("/gate/lock", h.Gate.Lock)

	// Sites (field roles read open sites, monitoring manages them)
	inStore := middleware.RequireStage(gate.StateFieldWork, gate.StateMonitoring)
	scoped.Get("/sites", inStore, h.Site.GetSites)
	scoped.Get("/sites/:id", inStore, h.Site.GetSite)
	scoped.Post("/sites", middleware.RequireMonitoring(), h.Site.CreateSite)
	scoped.Put("/sites/:id", middleware.RequireMonitoring(), h.Site.UpdateSite)
	scoped.Delete("/sites/:id", middleware.RequireMonitoring(), h.Site.DeleteSite)

	// Dashboard
	scoped.Get("/dashboard", middleware.RequireMonitoring(), h.Dashboard.GetOverview)
	scoped.Get("/dashboard/summary", middleware.RequireMonitoring(), h.Dashboard.GetSummary)
	scoped.Get("/dashboard/alerts", middleware.RequireMonitoring(), h.Dashboard.GetAlerts)

	// Inspections
	field := scoped.Group("/inspections", middleware.RequireField())
	field.Post("", h.Inspection.Submit)
	field.Post("/drafts", h.Inspection.CreateDraft)
	field.Get("/drafts/:id", h.Inspection.GetDraft)
	field.Patch("/drafts/:id", h.Inspection.UpdateDraft)
	field.Delete("/drafts/:id", h.Inspection.DiscardDraft)
	field.Post("/drafts/:id/photos", h.Inspection.AddPhoto)
	field.Delete("/drafts/:id/photos/:index", h.Inspection.RemovePhoto)
	field.Post("/drafts/:id/submit", h.Inspection.SubmitDraft)

	// WebSocket Route
	if h.WS != nil {
		app.Get("/ws", h.WS.Upgrade, websocket.New(h.WS.Stream))
	}
}
