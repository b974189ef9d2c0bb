package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/leavehub/hr-platform-api/internal/config"
	"github.com/leavehub/hr-platform-api/internal/database"
	"github.com/leavehub/hr-platform-api/internal/handlers"
	"github.com/leavehub/hr-platform-api/internal/middleware"
	"github.com/leavehub/hr-platform-api/internal/services"
	"github.com/leavehub/hr-platform-api/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.App.Env == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	err = utils.InitLogger(&utils.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger := utils.GetLogger()
	logger.Info("Starting HR Platform API", utils.LogFields{
		"environment": cfg.App.Env,
		"port":        cfg.App.Port,
	})

	dbConn, err := database.Initialize(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	db := dbConn.DB()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	logger.Info("Database migrations completed successfully", nil)

	var redisClient database.RedisClient
	if cfg.Redis.URL != "" {
		redisClient, err = database.InitializeRedis(cfg.Redis)
		if err != nil {
			logger.Warn("Redis not available, continuing with in-process rate limiting", utils.LogFields{
				"error": err.Error(),
			})
			redisClient = nil
		} else {
			logger.Info("Redis connected successfully", utils.LogFields{
				"url": cfg.Redis.URL,
			})
		}
	}

	svcs := initializeServices(cfg, db)
	hndls := initializeHandlers(cfg, db, redisClient, svcs)
	mws := initializeMiddleware(cfg, redisClient, svcs)

	router := setupRouter(cfg, hndls, mws)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.App.Port),
		Handler:        router,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info("Server starting", utils.LogFields{
			"addr": srv.Addr,
		})

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", err)
	}

	logger.Info("Server stopped gracefully")
}

// ServiceContainer holds all initialized services
type ServiceContainer struct {
	JWTService          *services.JWTService
	AuthService         *services.AuthService
	OrgContextService   *services.OrgContextService
	Authorizer          *services.Authorizer
	WorkspaceService    *services.WorkspaceService
	OrganizationService *services.OrganizationService
	EmployeeService     *services.EmployeeService
	LeaveService        *services.LeaveService
	TeamService         *services.TeamService
	InvitationService   *services.InvitationService
	SettingsService     *services.SettingsService
	BillingService      *services.BillingService
}

// HandlerContainer holds all initialized handlers
type HandlerContainer struct {
	AuthHandler         *handlers.AuthHandler
	WorkspaceHandler    *handlers.WorkspaceHandler
	OrganizationHandler *handlers.OrganizationHandler
	EmployeeHandler     *handlers.EmployeeHandler
	LeaveHandler        *handlers.LeaveHandler
	TeamHandler         *handlers.TeamHandler
	InvitationHandler   *handlers.InvitationHandler
	SettingsHandler     *handlers.SettingsHandler
	BillingHandler      *handlers.BillingHandler
	HealthHandler       *handlers.HealthHandler
}

// MiddlewareContainer holds all initialized middleware
type MiddlewareContainer struct {
	Auth       *middleware.AuthMiddleware
	OrgContext *middleware.OrgContextMiddleware
	RateLimit  *middleware.RateLimitWrapper
}

func initializeServices(cfg *config.Config, db *gorm.DB) *ServiceContainer {
	jwtService := services.NewJWTService(
		cfg.Security.JWTSecret,
		cfg.Security.JWTExpiry,
		cfg.Security.RefreshExpiry,
		cfg.Security.OrgCookieExpiry,
	)
	dbAdapter := database.NewGormAdapter(db)

	settingsService := services.NewSettingsService(dbAdapter)

	paymentProvider, err := services.NewPaymentProvider(cfg.Billing.Provider)
	if err != nil {
		log.Fatalf("Failed to configure billing: %v", err)
	}

	return &ServiceContainer{
		JWTService:          jwtService,
		AuthService:         services.NewAuthService(dbAdapter, jwtService),
		OrgContextService:   services.NewOrgContextService(dbAdapter),
		Authorizer:          services.NewAuthorizer(),
		WorkspaceService:    services.NewWorkspaceService(dbAdapter),
		OrganizationService: services.NewOrganizationService(dbAdapter),
		EmployeeService:     services.NewEmployeeService(dbAdapter),
		LeaveService:        services.NewLeaveService(dbAdapter),
		TeamService:         services.NewTeamService(dbAdapter),
		InvitationService:   services.NewInvitationService(dbAdapter, services.NewLogNotifier(), cfg.Invitations.TTL),
		SettingsService:     settingsService,
		BillingService:      services.NewBillingService(dbAdapter, settingsService, paymentProvider),
	}
}

func initializeHandlers(cfg *config.Config, db *gorm.DB, redisClient database.RedisClient, svcs *ServiceContainer) *HandlerContainer {
	return &HandlerContainer{
		AuthHandler:         handlers.NewAuthHandler(svcs.AuthService, cfg.Security),
		WorkspaceHandler:    handlers.NewWorkspaceHandler(svcs.WorkspaceService, svcs.JWTService, cfg.Security),
		OrganizationHandler: handlers.NewOrganizationHandler(svcs.OrganizationService),
		EmployeeHandler:     handlers.NewEmployeeHandler(svcs.EmployeeService),
		LeaveHandler:        handlers.NewLeaveHandler(svcs.LeaveService, svcs.Authorizer),
		TeamHandler:         handlers.NewTeamHandler(svcs.TeamService),
		InvitationHandler:   handlers.NewInvitationHandler(svcs.InvitationService),
		SettingsHandler:     handlers.NewSettingsHandler(svcs.SettingsService),
		BillingHandler:      handlers.NewBillingHandler(svcs.BillingService),
		HealthHandler:       handlers.NewHealthHandler(db, redisClient, cfg.App.Env),
	}
}

func initializeMiddleware(cfg *config.Config, redisClient database.RedisClient, svcs *ServiceContainer) *MiddlewareContainer {
	return &MiddlewareContainer{
		Auth: middleware.NewAuthMiddleware(svcs.JWTService),
		OrgContext: middleware.NewOrgContextMiddleware(
			svcs.OrgContextService,
			svcs.JWTService,
			svcs.Authorizer,
			cfg.Security.OrgCookieName,
		),
		RateLimit: middleware.NewRateLimitMiddleware(cfg, redisClient),
	}
}

func setupRouter(cfg *config.Config, hndls *HandlerContainer, mws *MiddlewareContainer) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(utils.Underlying()))
	router.Use(middleware.SecurityLogger(utils.Underlying()))

	router.Use(func(c *gin.Context) {
		utils.SetSecurityHeaders(c)
		c.Next()
	})

	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.RateLimit.Enabled {
		router.Use(mws.RateLimit.RateLimit())
	}

	router.GET("/health", hndls.HealthHandler.Health)
	router.GET("/ready", hndls.HealthHandler.Readiness)
	router.GET("/live", hndls.HealthHandler.Liveness)

	api := router.Group("/api")

	// Public authentication routes
	auth := api.Group("/auth")
	{
		auth.POST("/signup", hndls.AuthHandler.Signup)
		auth.POST("/login", hndls.AuthHandler.Login)
		auth.POST("/refresh", hndls.AuthHandler.Refresh)
		auth.POST("/logout", hndls.AuthHandler.Logout)
	}

	// Routes that need a user but no organization context: workspace
	// selection, organization creation, invitation acceptance.
	authed := api.Group("/")
	authed.Use(mws.Auth.RequireAuth())
	{
		authed.GET("/profile", hndls.AuthHandler.Profile)
		authed.GET("/workspace/organizations", hndls.WorkspaceHandler.ListOrganizations)
		authed.POST("/workspace/switch", hndls.WorkspaceHandler.Switch)
		authed.PUT("/workspace/default", hndls.WorkspaceHandler.SetDefault)
		authed.POST("/organizations", hndls.OrganizationHandler.Create)
		authed.POST("/invitations/accept", hndls.InvitationHandler.Accept)
	}

	// Organization-scoped routes: every request resolves its organization
	// context before any handler runs.
	protected := api.Group("/")
	protected.Use(mws.Auth.RequireAuth())
	protected.Use(mws.OrgContext.ResolveOrgContext())
	{
		org := protected.Group("/organization")
		{
			org.GET("", hndls.OrganizationHandler.Get)
			org.DELETE("", mws.OrgContext.RequireCapability(services.CapAdminUtilities), hndls.OrganizationHandler.Delete)
		}

		employees := protected.Group("/employees")
		{
			employees.GET("", mws.OrgContext.RequireCapability(services.CapViewMembers), hndls.EmployeeHandler.List)
			employees.POST("", mws.OrgContext.RequireCapability(services.CapManageMembers), hndls.EmployeeHandler.Create)
			employees.GET("/:id", mws.OrgContext.RequireCapability(services.CapViewMembers), hndls.EmployeeHandler.Get)
			employees.PUT("/:id", mws.OrgContext.RequireCapability(services.CapManageMembers), hndls.EmployeeHandler.Update)
			employees.DELETE("/:id", mws.OrgContext.RequireCapability(services.CapManageMembers), hndls.EmployeeHandler.Deactivate)
		}

		leave := protected.Group("/leave-requests")
		{
			leave.GET("", mws.OrgContext.RequireCapability(services.CapViewOwnLeave), hndls.LeaveHandler.List)
			leave.POST("", mws.OrgContext.RequireCapability(services.CapCreateOwnLeave), hndls.LeaveHandler.Create)
			leave.GET("/:id", mws.OrgContext.RequireCapability(services.CapViewOwnLeave), hndls.LeaveHandler.Get)
			leave.POST("/:id/approve", mws.OrgContext.RequireCapability(services.CapReviewLeave), hndls.LeaveHandler.Approve)
			leave.POST("/:id/reject", mws.OrgContext.RequireCapability(services.CapReviewLeave), hndls.LeaveHandler.Reject)
			leave.POST("/:id/cancel", mws.OrgContext.RequireCapability(services.CapCancelOwnLeave), hndls.LeaveHandler.Cancel)
		}

		teams := protected.Group("/teams")
		{
			teams.GET("", mws.OrgContext.RequireCapability(services.CapViewMembers), hndls.TeamHandler.List)
			teams.POST("", mws.OrgContext.RequireCapability(services.CapManageTeams), hndls.TeamHandler.Create)
			teams.GET("/:id", mws.OrgContext.RequireCapability(services.CapViewMembers), hndls.TeamHandler.Get)
			teams.PUT("/:id", mws.OrgContext.RequireCapability(services.CapManageTeams), hndls.TeamHandler.Update)
			teams.DELETE("/:id", mws.OrgContext.RequireCapability(services.CapManageTeams), hndls.TeamHandler.Delete)
			teams.POST("/:id/members", mws.OrgContext.RequireCapability(services.CapManageTeams), hndls.TeamHandler.AddMember)
			teams.DELETE("/:id/members/:profileId", mws.OrgContext.RequireCapability(services.CapManageTeams), hndls.TeamHandler.RemoveMember)
		}

		invitations := protected.Group("/invitations")
		invitations.Use(mws.OrgContext.RequireCapability(services.CapManageInvites))
		{
			invitations.GET("", hndls.InvitationHandler.List)
			invitations.POST("", hndls.InvitationHandler.Create)
			invitations.DELETE("/:id", hndls.InvitationHandler.Cancel)
		}

		settings := protected.Group("/settings")
		{
			settings.GET("", mws.OrgContext.RequireCapability(services.CapViewSettings), hndls.SettingsHandler.Get)
			settings.PUT("", mws.OrgContext.RequireCapability(services.CapManageSettings), hndls.SettingsHandler.Update)
		}

		billing := protected.Group("/billing")
		billing.Use(mws.OrgContext.RequireCapability(services.CapManageBilling))
		{
			billing.GET("/subscription", hndls.BillingHandler.GetSubscription)
			billing.POST("/subscription/plan", hndls.BillingHandler.ChangePlan)
		}
	}

	return router
}
