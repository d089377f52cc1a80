package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"siperu/internal/adapters/http/middleware"
	"siperu/internal/adapters/http/routes"
	"siperu/internal/adapters/persistence/models"
	"siperu/internal/adapters/persistence/repositories"
	"siperu/internal/config"
	"siperu/internal/core/services"
	"siperu/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the admin account and room master data
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Write the import template workbook when missing
	importService := services.NewImportService(
		repositories.NewUserRepository(db),
		storage.New(cfg.Storage.Root),
		cfg.Storage.ImportBucket,
		cfg.Storage.TemplateDir,
	)
	if err := importService.EnsureTemplate(); err != nil {
		log.Printf("⚠️ Warning: Failed to write import template: %v", err)
	}

	// Create Fiber app with the HTML view engine
	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		AppName:      "SIPERU v1.0",
		Views:        engine,
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	cronService := routes.Setup(app, db, cfg)

	// Auto-complete expired approved bookings in the background
	cronService.Start()
	defer cronService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
