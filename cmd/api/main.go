package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/config"
	"go-asset-ledger/internal/handler"
	"go-asset-ledger/internal/ledger"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/service"
	"go-asset-ledger/internal/telemetry"
	"go-asset-ledger/internal/ws"
	"go-asset-ledger/pkg/database"
	"go-asset-ledger/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Config + logging
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := telemetry.SetupLogger(cfg.LogFormat, cfg.LogLevel)

	// 2. Database
	db, err := database.Open(database.Options{Driver: cfg.DBDriver, DSN: cfg.DSN(), Logger: log})
	if err != nil {
		log.Error("open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer database.Close(db)
	if err := database.Migrate(db, model.All()...); err != nil {
		log.Error("migrate database", "error", err)
		os.Exit(1)
	}

	// 3. WebSocket hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 4. Wiring
	auditLog := audit.NewLogger(db, log)
	assets := ledger.New(db, auditLog, ledger.WithNotifier(wsHub), ledger.WithLogger(log))
	if err := assets.Verify(context.Background()); err != nil {
		log.Warn("item counts out of sync, run a reconcile", "error", err)
	}

	authService := service.NewAuthService(db, auditLog, jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL), log)
	if _, err := authService.SeedAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Warn("seed admin user", "error", err)
	}
	searchService := service.NewSearchService(db, auditLog)

	routes := &handler.Routes{
		Auth:  handler.NewAuthHandler(authService),
		Users: handler.NewUserHandler(service.NewUserService(db, auditLog)),
		Catalog: handler.NewCatalogHandler(
			service.NewDivisionService(db, auditLog),
			service.NewEmployeeService(db, auditLog, assets),
			service.NewItemService(db, auditLog, assets),
			service.NewAttributeService(db, auditLog),
		),
		Ledger:      handler.NewLedgerHandler(assets, searchService),
		Search:      handler.NewSearchHandler(searchService),
		Dashboard:   handler.NewDashboardHandler(service.NewDashboardService(db)),
		AuthService: authService,
	}

	// 5. Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Asset Ledger v1.0",
		Immutable: true,
	})
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	routes.Mount(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		if !wsHub.Join(c) {
			return
		}
		defer wsHub.Leave(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 6. Graceful shutdown
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr(), "driver", cfg.DBDriver)
		if err := app.Listen(cfg.ListenAddr()); err != nil {
			log.Error("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	wsHub.Stop()
	log.Info("server exited")
}
