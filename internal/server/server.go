// Package server assembles the fiber application: middleware stack, health
// check and the /api routes.
package server

import (
	"context"
	"io"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options are the collaborators of the HTTP server.
type Options struct {
	Config *config.Config
	DB     *gorm.DB
	// Events receives order events. Nil disables publishing.
	Events services.EventPublisher
	// AccessLog receives one line per request. Defaults to stdout.
	AccessLog io.Writer
}

// New wires repositories, services and handlers into a fiber app.
func New(opts Options) *fiber.App {
	cfg := opts.Config
	accessLog := opts.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(opts.DB)
	tokenRepo := repositories.NewGORMTokenRepository(opts.DB)
	productRepo := repositories.NewGORMProductRepository(opts.DB)
	orderRepo := repositories.NewGORMOrderRepository(opts.DB)

	// --- Services ---
	authService := services.NewAuthService(userRepo, tokenRepo, cfg.BcryptCost)
	userService := services.NewUserService(userRepo, cfg.BcryptCost)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, opts.Events)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: accessLog,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// --- Health Check Endpoint ---
	app.Get("/health", healthHandler(opts.DB))

	// --- API Routes ---
	api := app.Group("/api")
	auth := middleware.AuthRequired(authService)
	authHandler.RegisterRoutes(api, auth)
	userHandler.RegisterRoutes(api, auth)
	productHandler.RegisterRoutes(api, auth)
	orderHandler.RegisterRoutes(api, auth)

	return app
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status, dbState, code := "healthy", "up", fiber.StatusOK
		if err := database.Ping(ctx, db); err != nil {
			status, dbState, code = "unhealthy", "down", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"database": dbState,
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}
