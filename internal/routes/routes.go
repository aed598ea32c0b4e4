package routes

import (
	"time"

	"github.com/Kaannpy/Berber-randevu-sistemi/internal/config"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/handlers"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	appointmentHandler *handlers.AppointmentHandler,
	catalogHandler *handlers.CatalogHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Catalog reads are public: the booking form needs them before login.
	api.Get("/staff", catalogHandler.ListStaff)
	api.Get("/services", catalogHandler.ListServices)

	// Auth gets a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Appointments (JWT required)
	appointments := api.Group("/appointments", middleware.JWTProtected(cfg))
	appointments.Get("/", appointmentHandler.List)
	appointments.Post("/", appointmentHandler.Create)
	appointments.Get("/:id", appointmentHandler.Get)
	appointments.Put("/:id", appointmentHandler.Update)
	appointments.Delete("/:id", appointmentHandler.Cancel)

	// Catalog management (JWT + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Post("/staff", catalogHandler.CreateStaff)
	admin.Put("/staff/:id", catalogHandler.UpdateStaff)
	admin.Delete("/staff/:id", catalogHandler.DeleteStaff)
	admin.Post("/services", catalogHandler.CreateService)
	admin.Put("/services/:id", catalogHandler.UpdateService)
	admin.Delete("/services/:id", catalogHandler.DeleteService)
}
