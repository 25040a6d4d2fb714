package routes

import (
	"time"

	"keytrack/internal/adapters/http/handlers"
	"keytrack/internal/adapters/http/middleware"
	"keytrack/internal/adapters/persistence/repositories"
	"keytrack/internal/adapters/persistence/store"
	"keytrack/internal/config"
	"keytrack/internal/core/services"
	"keytrack/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Options carries the optional collaborators of the application.
// Zero values mean: wall clock, no e-mail, no reset snapshots.
type Options struct {
	Now       services.Clock
	Mailer    services.Mailer
	Snapshots services.SnapshotStore
}

// Services exposes the wired services the process lifecycle drives
type Services struct {
	Overdue *services.OverdueService
	Seeder  *config.Seeder
}

// Setup configures all routes for the application
func Setup(app *fiber.App, s store.Store, cfg *config.Config, opts Options) *Services {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	// Initialize repositories
	repos := repositories.New(s)
	seeder := config.NewSeeder(repos.Users)

	// Initialize services
	lock := services.NewWorkflowLock()
	profileService := services.NewProfileService(repos)
	notificationService := services.NewNotificationService(repos, profileService, opts.Mailer, now)
	overdueService := services.NewOverdueService(repos, notificationService, lock, now, cfg.Overdue.SweepOnRead)
	assignmentService := services.NewAssignmentService(repos, notificationService, lock, now)
	keyService := services.NewKeyService(repos, overdueService, notificationService, lock, now)
	requestService := services.NewRequestService(repos, assignmentService, notificationService, lock, now)
	userService := services.NewUserService(repos, assignmentService)
	roomService := services.NewRoomService(repos)
	authService := services.NewAuthService(repos, userService, seeder, cfg)
	dashboardService := services.NewDashboardService(repos, overdueService)
	reportService := services.NewReportService(repos, overdueService)
	settingsService := services.NewSettingsService(repos, profileService, opts.Snapshots, lock, now)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(s, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	keyHandler := handlers.NewKeyHandler(keyService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	requestHandler := handlers.NewRequestHandler(requestService)
	userHandler := handlers.NewUserHandler(userService)
	roomHandler := handlers.NewRoomHandler(roomService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, reportService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	settingsHandler := handlers.NewSettingsHandler(profileService, settingsService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", metrics.Handler())

	// Swagger documentation
	app.Get("/swagger/*", middleware.CacheControl(time.Hour), swagger.HandlerDefault)

	// Auth routes are public and must be registered before the guarded group
	authRoutes := app.Group("/api/auth", middleware.NoStore(), middleware.AuthRateLimiter())
	authRoutes.Post("/signup", authHandler.Signup)
	authRoutes.Post("/login", authHandler.Login)

	api := app.Group("/api", middleware.NoStore(), middleware.AuthMiddleware(cfg))

	setupKeyRoutes(api.Group("/keys"), keyHandler)
	setupAssignmentRoutes(api.Group("/assignments"), assignmentHandler)
	setupRequestRoutes(api.Group("/requests"), requestHandler)

	// personnel is the name the front end uses for users
	setupUserRoutes(api.Group("/users"), userHandler, cfg)
	setupUserRoutes(api.Group("/personnel"), userHandler, cfg)

	setupRoomRoutes(api.Group("/rooms"), roomHandler)

	api.Get("/stats", dashboardHandler.Stats)
	api.Get("/reports/summary", dashboardHandler.ReportSummary)

	api.Get("/notifications", notificationHandler.Recent)
	api.Post("/notifications/mark-read", notificationHandler.MarkRead)
	api.Get("/log", notificationHandler.Log)

	setupSettingsRoutes(api, settingsHandler, cfg)

	return &Services{
		Overdue: overdueService,
		Seeder:  seeder,
	}
}

// setupKeyRoutes configures key inventory routes
func setupKeyRoutes(router fiber.Router, handler *handlers.KeyHandler) {
	router.Get("/", handler.ListKeys)
	router.Post("/", handler.CreateKey)
	router.Get("/:id", handler.GetKey)
	router.Put("/:id", handler.UpdateKey)
	router.Delete("/:id", handler.DeleteKey)
	router.Post("/:id/return", handler.ReturnKey)
	router.Post("/:id/lost", handler.ReportLost)
	router.Get("/:id/history", handler.History)
}

// setupAssignmentRoutes configures assignment routes
func setupAssignmentRoutes(router fiber.Router, handler *handlers.AssignmentHandler) {
	router.Get("/recent", handler.Recent)
	router.Get("/", handler.List)
	router.Post("/", handler.Issue)
}

// setupRequestRoutes configures key request routes
func setupRequestRoutes(router fiber.Router, handler *handlers.RequestHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Submit)
	router.Post("/:id/approve", handler.Approve)
	router.Post("/:id/reject", handler.Reject)
}

// setupUserRoutes configures user management routes; mutations are admin only
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler, cfg *config.Config) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Get("/:id/keys", handler.UserKeys)

	admin := middleware.AdminOnly(cfg)
	router.Post("/", admin, handler.CreateUser)
	router.Put("/:id", admin, handler.UpdateUser)
	router.Delete("/:id", admin, handler.DeleteUser)
}

// setupRoomRoutes configures room routes
func setupRoomRoutes(router fiber.Router, handler *handlers.RoomHandler) {
	router.Get("/", handler.ListRooms)
	router.Post("/", handler.CreateRoom)
	router.Put("/:id", handler.UpdateRoom)
	router.Delete("/:id", handler.DeleteRoom)
}

// setupSettingsRoutes configures profile and settings routes
func setupSettingsRoutes(router fiber.Router, handler *handlers.SettingsHandler, cfg *config.Config) {
	admin := middleware.AdminOnly(cfg)

	router.Get("/profile", handler.GetProfile)
	router.Put("/profile", admin, handler.UpdateProfile)
	router.Put("/settings/logo", admin, handler.UpdateLogo)
	router.Post("/settings/reset", admin, handler.Reset)
}
