package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"result-mailer/config"
	"result-mailer/db"
	"result-mailer/handlers"
	"result-mailer/mailer"
	"result-mailer/sessions"
	"result-mailer/store"
)

func main() {
	cfg := config.Load()

	// Initialize database
	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire up components
	resultStore := store.New(db.Pool)
	sender, err := mailer.NewSMTPSender(cfg)
	if err != nil {
		log.Fatalf("Failed to configure mail transport: %v", err)
	}
	limiter := mailer.NewLimiter(cfg.RateLimitPerHour)
	dispatcher := mailer.NewDispatcher(resultStore, sender, limiter)

	uploadSessions := sessions.New(cfg.SessionLifetime)
	uploadSessions.StartSweeper(1 * time.Minute)

	handlers.Setup(cfg, resultStore, uploadSessions, dispatcher)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "Exam Results Mailer API",
		BodyLimit: cfg.MaxContentLength,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			if code == fiber.StatusRequestEntityTooLarge {
				return c.Status(code).JSON(fiber.Map{"error": "File too large. Please upload a smaller file."})
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "*",
	}))

	// Routes
	api := app.Group("/api")

	// Upload endpoints
	upload := api.Group("/upload")
	upload.Post("/", handlers.UploadHandler)
	upload.Get("/preview/:id", handlers.PreviewHandler)
	upload.Post("/commit", handlers.CommitHandler)

	// Student endpoints
	students := api.Group("/students")
	students.Get("/", handlers.ListStudentsHandler)
	students.Get("/search", handlers.SearchStudentsHandler)

	// Mail endpoints
	mail := api.Group("/mail")
	mail.Post("/dispatch", handlers.DispatchHandler)

	// Log endpoints
	logs := api.Group("/logs")
	logs.Get("/", handlers.ListLogsHandler)
	logs.Get("/export", handlers.ExportLogsHandler)

	// Stats endpoints
	stats := api.Group("/stats")
	stats.Get("/", handlers.StatsHandler)
	stats.Get("/subjects", handlers.SubjectStatsHandler)
	stats.Get("/activity", handlers.ActivityHandler)

	// Template endpoints
	templates := api.Group("/templates")
	templates.Get("/default", handlers.GetTemplateHandler)
	templates.Put("/default", handlers.UpdateTemplateHandler)

	// Admin endpoints
	admin := api.Group("/admin")
	admin.Post("/clear-data", handlers.ClearDataHandler)
	admin.Post("/reset-db", handlers.ResetDatabaseHandler)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Shutting down server...")
		app.Shutdown()
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
