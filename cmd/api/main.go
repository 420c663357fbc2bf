package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-sitesafety-ws/internal/ai"
	"go-sitesafety-ws/internal/config"
	"go-sitesafety-ws/internal/gate"
	"go-sitesafety-ws/internal/handler"
	"go-sitesafety-ws/internal/inspection"
	"go-sitesafety-ws/internal/model"
	"go-sitesafety-ws/internal/repository"
	"go-sitesafety-ws/internal/service"
	internalsync "go-sitesafety-ws/internal/sync"
	"go-sitesafety-ws/internal/ws"
	"go-sitesafety-ws/pkg/database"
	"go-sitesafety-ws/pkg/jwt"
	"go-sitesafety-ws/pkg/telemetry"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set, using the development secret")
	}
	shutdownTracing := telemetry.Setup(cfg.ServiceName)

	// 2. Setup Database
	db := database.ConnectDB(cfg.TimeZone)
	if err := db.AutoMigrate(&model.Store{}, &model.Site{}, &model.InspectionLog{}); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	storeRepo := repository.NewStoreRepo(db)
	siteRepo := repository.NewSiteRepo(db)
	logRepo := repository.NewInspectionLogRepo(db)

	// 3. Seed the store directory
	if err := storeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed stores: %v", err)
	}

	// 4. Setup WebSocket Hub and the store feed
	wsHub := ws.NewHub()
	go wsHub.Run()
	feed := internalsync.NewFeed(siteRepo, logRepo)

	// 5. Dependency Injection (Wiring Layers)
	assistant := ai.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEndpoint, cfg.AITimeout)
	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set, AI suggestions are disabled")
	}
	drafts := inspection.NewRegistry()

	gateService := service.NewGateService(gate.New(cfg.AppPasscode, cfg.SupportPasscode), storeRepo, jwt.NewSigner(cfg.JWTSecret, cfg.ScopeTokenTTL))
	storeService := service.NewStoreService(storeRepo)
	siteService := service.NewSiteService(siteRepo, feed, cfg.Location)
	inspService := service.NewInspectionService(siteService, feed, drafts, assistant, wsHub)
	dashService := service.NewDashboardService(siteRepo, logRepo, assistant, cfg.Location)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Site Safety Monitor v1.0",
		BodyLimit: 32 * 1024 * 1024, // photos travel as base64
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	handler.RegisterRoutes(app, handler.Handlers{
		Gate:       handler.NewGateHandler(gateService),
		Store:      handler.NewStoreHandler(storeService),
		Site:       handler.NewSiteHandler(siteService),
		Inspection: handler.NewInspectionHandler(inspService),
		Dashboard:  handler.NewDashboardHandler(dashService),
		WS:         handler.NewWSHandler(wsHub, gateService, feed, cfg.Location),
	}, gateService)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	// Let pending photo classifications finish before the process exits
	drafts.Wait()
	wsHub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("Tracing shutdown: %v", err)
	}

	log.Println("Server exited")
}
