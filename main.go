// main.go - Recognition API server
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"teamcal/config"
	"teamcal/database"
	"teamcal/handlers"
	"teamcal/handlers/admin"
	"teamcal/logger"
	"teamcal/middleware"
	"teamcal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("FATAL: %v. Generate one with: openssl rand -base64 64", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("FATAL: init logger: %v", err)
	}
	defer appLog.Sync()

	if err := database.InitDB(cfg.Database); err != nil {
		appLog.Fatal("database init failed", "error", err)
	}
	defer database.CloseDB()

	db := database.GetDB()
	recognitionService := services.NewRecognitionService(services.NewRecognitionStore(db), appLog, cfg.Recognition)
	teamService := services.NewTeamService(db)
	handlers.InitRecognitionHandlers(recognitionService, teamService, appLog)
	admin.InitAchievementHandlers(recognitionService, teamService)

	app := newApp(cfg)

	generalLimiter := middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, cfg.RateLimit.Disabled)
	checkLimiter := middleware.NewRateLimiter(cfg.RateLimit.CheckMax, cfg.RateLimit.CheckWindow, cfg.RateLimit.Disabled)
	stopGeneral := generalLimiter.StartCleanup(10 * time.Minute)
	defer stopGeneral()
	stopCheck := checkLimiter.StartCleanup(10 * time.Minute)
	defer stopCheck()

	registerRoutes(app, middleware.NewAuth(cfg.JWTSecret), generalLimiter, checkLimiter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		appLog.Info("shutting down HTTP server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLog.Error("HTTP server shutdown failed", "error", err)
		}
	}()

	appLog.Info("HTTP server starting", "port", cfg.Port, "env", cfg.AppEnv)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Error("HTTP server stopped", "error", err)
	}
}

func newApp(cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(cfg.IsProduction()),
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	return app
}

func registerRoutes(app *fiber.App, auth *middleware.Auth, general, check *middleware.RateLimiter) {
	app.Use(general.ByIP())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	api := app.Group("/api")

	rec := api.Group("/recognition")
	rec.Get("/catalog", handlers.GetRecognitionCatalog)
	rec.Get("/leaderboard", auth.Required, handlers.GetRecognitionLeaderboard)

	me := rec.Group("/me", auth.Required)
	me.Get("/profile", handlers.GetMyProfile)
	me.Get("/achievements", handlers.GetMyAchievements)
	me.Get("/level", handlers.GetMyLevel)
	me.Get("/progress", handlers.GetMyProgress)
	me.Post("/check", check.ByUser(), handlers.CheckMyAchievements)

	api.Get("/teams/:id/recognition", auth.Required, handlers.GetTeamRecognitionStats)
	api.Post("/teams/:id/recognition/award", auth.Required, admin.AwardTeamAchievement)

	adminGroup := api.Group("/admin", auth.Required, auth.AdminRequired)
	adminGroup.Post("/recognition/award", admin.AwardAchievement)
}

// errorHandler hides internal error text in production.
func errorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		if production && code == fiber.StatusInternalServerError {
			message = "An error occurred. Please try again later."
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}
