// Package router wires the HTTP routes to their handlers and middleware.
package router

import (
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/ratelimit"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Contact      *handler.ContactHandler
	Deal         *handler.DealHandler
	Pipeline     *handler.PipelineHandler
	Activity     *handler.ActivityHandler
	Task         *handler.TaskHandler
	Note         *handler.NoteHandler
	Email        *handler.EmailHandler
	Notification *handler.NotificationHandler
	Audit        *handler.AuditHandler
	Report       *handler.ReportHandler
	Integration  *handler.IntegrationHandler
	Dashboard    *handler.DashboardHandler
	System       *handler.SystemHandler
}

// Limiters groups the per-endpoint-class rate limiters
type Limiters struct {
	Global  *ratelimit.Limiter
	Auth    *ratelimit.Limiter
	API     *ratelimit.Limiter
	PerUser *ratelimit.Limiter
}

// New builds the gin engine with all routes and middleware attached
func New(cfg *config.Config, logger *zap.Logger, jwtService *auth.JWTService, handlers Handlers, limiters Limiters) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)

	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	trustProxy := cfg.RateLimit.TrustProxyHeaders
	if cfg.RateLimit.Enabled {
		engine.Use(middleware.RateLimit(limiters.Global, trustProxy))
	}

	engine.GET("/health", handlers.System.Health)
	engine.GET("/ready", handlers.System.Ready)

	// Credential endpoints get the strict auth limiter
	authGroup := engine.Group("/api/auth")
	if cfg.RateLimit.Enabled {
		authGroup.Use(middleware.RateLimit(limiters.Auth, trustProxy))
	}
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/refresh", handlers.Auth.Refresh)
	}

	// Session endpoints need a valid token but not the auth limiter
	session := engine.Group("/api/auth")
	session.Use(middleware.Auth(jwtService))
	{
		session.GET("/me", handlers.Auth.Me)
		session.PATCH("/session", handlers.Auth.UpdateSession)
	}

	api := engine.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(limiters.API, trustProxy))
	}
	api.Use(middleware.Auth(jwtService))
	if cfg.RateLimit.Enabled {
		// Behind Auth so the identity is the user, not the IP
		api.Use(middleware.RateLimit(limiters.PerUser, trustProxy))
	}

	contacts := api.Group("/contacts")
	{
		contacts.GET("", handlers.Contact.List)
		contacts.POST("", handlers.Contact.Create)
		contacts.GET("/:id", handlers.Contact.Get)
		contacts.PATCH("/:id", handlers.Contact.Update)
		contacts.DELETE("/:id", handlers.Contact.Delete)
	}

	deals := api.Group("/deals")
	{
		deals.GET("", handlers.Deal.List)
		deals.POST("", handlers.Deal.Create)
		deals.GET("/:id", handlers.Deal.Get)
		deals.PATCH("/:id", handlers.Deal.Update)
		deals.DELETE("/:id", handlers.Deal.Delete)
		deals.POST("/:id/stage", handlers.Deal.MoveStage)
	}

	pipelines := api.Group("/pipelines")
	{
		pipelines.GET("", handlers.Pipeline.List)
		pipelines.POST("", handlers.Pipeline.Create)
		pipelines.GET("/:id", handlers.Pipeline.Get)
		pipelines.PATCH("/:id", handlers.Pipeline.Update)
		pipelines.DELETE("/:id", handlers.Pipeline.Delete)
	}

	activities := api.Group("/activities")
	{
		activities.GET("", handlers.Activity.List)
		activities.POST("", handlers.Activity.Create)
		activities.GET("/:id", handlers.Activity.Get)
		activities.PATCH("/:id", handlers.Activity.Update)
		activities.DELETE("/:id", handlers.Activity.Delete)
		activities.POST("/:id/complete", handlers.Activity.Complete)
	}

	tasks := api.Group("/tasks")
	{
		tasks.GET("", handlers.Task.List)
		tasks.POST("", handlers.Task.Create)
		tasks.GET("/:id", handlers.Task.Get)
		tasks.PATCH("/:id", handlers.Task.Update)
		tasks.DELETE("/:id", handlers.Task.Delete)
		tasks.POST("/:id/complete", handlers.Task.Complete)
	}

	notes := api.Group("/notes")
	{
		notes.GET("", handlers.Note.List)
		notes.POST("", handlers.Note.Create)
		notes.GET("/:id", handlers.Note.Get)
		notes.PATCH("/:id", handlers.Note.Update)
		notes.DELETE("/:id", handlers.Note.Delete)
	}

	emails := api.Group("/emails")
	{
		emails.GET("", handlers.Email.List)
		emails.POST("", handlers.Email.Create)
		emails.GET("/:id", handlers.Email.Get)
		emails.PATCH("/:id", handlers.Email.Update)
		emails.DELETE("/:id", handlers.Email.Delete)
		emails.POST("/:id/schedule", handlers.Email.Schedule)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", handlers.Notification.List)
		notifications.PATCH("/:id/read", handlers.Notification.MarkRead)
	}

	api.GET("/audit-logs",
		middleware.RequireRole(identity.RoleAdmin, identity.RoleSuperAdmin),
		handlers.Audit.List)

	reports := api.Group("/reports")
	{
		reports.GET("", handlers.Report.List)
		reports.POST("", handlers.Report.Create)
		reports.GET("/:id", handlers.Report.Get)
		reports.DELETE("/:id", handlers.Report.Delete)
	}

	integrations := api.Group("/integrations")
	integrations.Use(middleware.RequireRole(identity.RoleAdmin, identity.RoleSuperAdmin))
	{
		integrations.GET("", handlers.Integration.List)
		integrations.POST("", handlers.Integration.Connect)
		integrations.PATCH("/:id", handlers.Integration.Update)
		integrations.DELETE("/:id", handlers.Integration.Disconnect)
	}

	api.GET("/users",
		middleware.RequireRole(identity.RoleSuperAdmin, identity.RoleAdmin, identity.RoleManager),
		handlers.User.List)

	api.GET("/dashboard/stats", handlers.Dashboard.Stats)

	return engine
}
