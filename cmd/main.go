package main

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"github.com/CammoPaint/QuoteGen-sub000/internal/caching"
	"github.com/CammoPaint/QuoteGen-sub000/internal/config"
	"github.com/CammoPaint/QuoteGen-sub000/internal/handlers"
	"github.com/CammoPaint/QuoteGen-sub000/internal/jobs/background"
	"github.com/CammoPaint/QuoteGen-sub000/internal/middleware"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/repositories"
	"github.com/CammoPaint/QuoteGen-sub000/internal/services"
	"github.com/CammoPaint/QuoteGen-sub000/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Database connection and schema
	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.ApplyMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; sessions will not survive restarts")
	}

	// Shared infrastructure
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	tenantRepo := repositories.NewTenantRepo(pool)
	invitationRepo := repositories.NewInvitationRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)
	quoteRepo := repositories.NewQuoteRepo(pool)
	dealRepo := repositories.NewDealRepo(pool)
	taskRepo := repositories.NewTaskRepo(pool)

	// Services
	notifier := services.NewNotificationService(cfg.NotifyEndpoint)
	authSvc := services.NewAuthService(userRepo, cacheSvc, jwtSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	directorySvc := services.NewDirectoryService(tenantRepo, userRepo)
	invitationSvc := services.NewInvitationService(invitationRepo, notifier, cfg.AcceptBaseURL)
	onboardingSvc := services.NewOnboardingService(invitationRepo, userRepo)
	scopeResolver := services.NewScopeResolver()

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, directorySvc, userRepo)
	invitationHandlers := handlers.NewInvitationHandlers(invitationSvc, onboardingSvc, directorySvc, authSvc, cacheSvc)
	scopeHandlers := handlers.NewScopeHandlers(scopeResolver)
	memberHandlers := handlers.NewMemberHandlers(directorySvc, userRepo)
	customerHandlers := handlers.NewCustomerHandlers(customerRepo, scopeResolver)
	quoteHandlers := handlers.NewQuoteHandlers(quoteRepo, scopeResolver)
	dealHandlers := handlers.NewDealHandlers(dealRepo, scopeResolver)
	taskHandlers := handlers.NewTaskHandlers(taskRepo, scopeResolver)

	// Background expiry sweep
	scheduler, err := background.NewJobScheduler(invitationSvc, cfg.SweepInterval)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop scheduler: %v", err)
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", func(c echo.Context) error {
		return handlers.ReadinessCheck(c, pool)
	})

	// API routes
	v1 := e.Group("/v1")

	// Authentication and onboarding routes (no JWT required)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	// Public invitation endpoints used by the accept screen
	v1.GET("/invitations/lookup", invitationHandlers.Lookup)
	v1.POST("/invitations/accept", invitationHandlers.Accept)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(userRepo, jwtSecret))

	protected.GET("/me", authHandlers.Me)
	protected.GET("/members", memberHandlers.ListMembers)
	protected.PUT("/members/:id/role", memberHandlers.UpdateMemberRole)

	// Invitation management
	protected.GET("/invitations", invitationHandlers.List)
	inviteAdmin := protected.Group("/invitations",
		middleware.RequireRole(models.RoleAdmin, models.RoleSalesManager))
	inviteAdmin.POST("", invitationHandlers.Create)
	inviteAdmin.POST("/:id/cancel", invitationHandlers.Cancel)
	inviteAdmin.POST("/:id/resend", invitationHandlers.Resend)

	// Scope resolution used by every list screen
	protected.GET("/scope", scopeHandlers.Resolve)

	// Record routes
	protected.GET("/customers", customerHandlers.ListCustomers)
	protected.POST("/customers", customerHandlers.CreateCustomer)
	protected.GET("/leads", customerHandlers.ListLeads)

	protected.GET("/quotes", quoteHandlers.ListQuotes)
	protected.POST("/quotes", quoteHandlers.CreateQuote)

	protected.GET("/deals", dealHandlers.ListDeals)
	protected.POST("/deals", dealHandlers.CreateDeal)

	protected.GET("/tasks", taskHandlers.ListTasks)
	protected.POST("/tasks", taskHandlers.CreateTask)

	log.Printf("🚀 QuoteGen server v%s starting on port %d", version, cfg.Port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
