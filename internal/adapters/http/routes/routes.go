package routes

import (
	"siperu/internal/adapters/http/handlers"
	"siperu/internal/adapters/http/middleware"
	"siperu/internal/adapters/persistence/repositories"
	"siperu/internal/config"
	"siperu/internal/core/services"
	"siperu/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	ruanganRepo := repositories.NewRuanganRepository(db)
	peminjamanRepo := repositories.NewPeminjamanRepository(db)

	// Initialize services
	store := storage.New(cfg.Storage.Root)
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo, peminjamanRepo)
	importService := services.NewImportService(userRepo, store, cfg.Storage.ImportBucket, cfg.Storage.TemplateDir)
	peminjamanService := services.NewPeminjamanService(peminjamanRepo, ruanganRepo, userRepo)
	cronService := services.NewCronService(peminjamanService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService, importService)
	peminjamanHandler := handlers.NewPeminjamanHandler(peminjamanService)

	// Health check & root routes
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	})

	// Auth routes (public)
	app.Get("/login", authHandler.LoginForm)
	app.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	app.Post("/logout", authHandler.Logout)

	// Admin pages (admin role only)
	admin := app.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminOnly())
	admin.Use(middleware.NoCacheHeaders())
	setupUserRoutes(admin, userHandler)
	setupPeminjamanRoutes(admin, peminjamanHandler)

	return cronService
}

// setupUserRoutes configures the user directory routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/users", handler.Index)
	router.Get("/users/create", handler.Create)
	router.Post("/users", handler.Store)
	router.Get("/users/import", handler.ImportForm)
	router.Post("/users/import", handler.Import)
	router.Get("/users/template", handler.DownloadTemplate)
	router.Get("/users/:id/edit", handler.Edit)
	router.Post("/users/:id", handler.Update)
	router.Put("/users/:id", handler.Update)
	router.Post("/users/:id/delete", handler.Destroy)
	router.Delete("/users/:id/delete", handler.Destroy)
}

// setupPeminjamanRoutes configures the booking routes
func setupPeminjamanRoutes(router fiber.Router, handler *handlers.PeminjamanHandler) {
	router.Get("/peminjaman-pengembalian", handler.Index)
	router.Get("/peminjaman-pengembalian/create", handler.CreateForm)
	router.Post("/peminjaman-pengembalian", handler.Store)
	router.Patch("/peminjaman-pengembalian/:id/status", handler.UpdateStatus)
	router.Post("/peminjaman-pengembalian/:id/status", handler.UpdateStatus)
}
