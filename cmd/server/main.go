package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"keytrack/internal/adapters/http/middleware"
	"keytrack/internal/adapters/http/routes"
	"keytrack/internal/adapters/mail"
	"keytrack/internal/adapters/storage"
	"keytrack/internal/config"
	"keytrack/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "keytrack/docs" // Swagger docs
)

// @title KeyTrack API
// @version 1.0
// @description University key management: inventory, issue and return, requests, overdue tracking.

// @contact.name API Support
// @contact.email it-services@university.edu

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Open the record store (gorm, redis or memory)
	st, err := config.OpenStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer st.Close()

	opts := routes.Options{Now: time.Now}

	// Optional e-mail delivery
	if cfg.Mail.Enabled() {
		mailer, err := mail.NewResendMailer(cfg.Mail.ResendAPIKey, cfg.Mail.From, cfg.Mail.BaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to configure mailer: %v", err)
		}
		opts.Mailer = mailer
		log.Println("✅ Resend mailer enabled")
	} else {
		log.Println("⚠️ RESEND_API_KEY not set, notification e-mails disabled")
	}

	// Optional pre-reset snapshots
	minioClient, err := config.ConnectMinio(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to object storage: %v", err)
	}
	if minioClient != nil {
		opts.Snapshots = storage.NewMinioSnapshots(minioClient, cfg.Storage.Bucket)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "KeyTrack API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    8 * 1024 * 1024, // base64 logos
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (store, cfg and collaborators injected)
	svc := routes.Setup(app, st, cfg, opts)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.Seeder.Run(seedCtx); err != nil {
		log.Printf("⚠️ Warning: Failed to seed users: %v", err)
	}
	cancel()

	// Periodic overdue sweep
	cronService := services.NewCronService(svc.Overdue, cfg.Overdue.Schedule)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron: %v", err)
	}
	defer cronService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s, STORE: %s]", cfg.Port, cfg.AppMode, cfg.Store.Driver)
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
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
