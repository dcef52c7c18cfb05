package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/JJProjectStash/aibarangay-be/internal/core/port"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/config"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/security"
	"github.com/JJProjectStash/aibarangay-be/internal/infra/telemetry"
	"github.com/JJProjectStash/aibarangay-be/internal/transport/http/handlers"
	"github.com/JJProjectStash/aibarangay-be/internal/transport/http/middleware"
	"github.com/JJProjectStash/aibarangay-be/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth            *usecase.AuthService
	Registration    *usecase.RegistrationService
	Complaints      *usecase.ComplaintService
	ServiceRequests *usecase.ServiceRequestService
	BulkStatus      *usecase.BulkStatusService
	Announcements   *usecase.AnnouncementService
	Events          *usecase.EventService
	Notifications   *usecase.NotificationService
}

// StoreSet groups the request stores the bulk endpoints operate on.
type StoreSet struct {
	Complaints      port.ComplaintRepository
	ServiceRequests port.ServiceRequestRepository
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Cache       port.Cache
	Metrics     *telemetry.Metrics
	HTTPMetrics *middleware.HTTPMetrics
	Tokens      *security.TokenManager
	Services    ServiceSet
	Stores      StoreSet
	Database    DatabaseChecker
	Redis       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	allowedOrigins := deps.Config.App.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(middleware.CORS(allowedOrigins))
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics.Handler())
	}

	authRequired := middleware.RequireAuth(deps.Tokens)

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Redis != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Redis.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cacheMiddlewares := buildCacheMiddlewares(deps)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Registration, deps.Metrics)
		authHandler.RegisterRoutes(authGroup,
			buildRateLimit(deps, "auth_login_ip", deps.Config.RateLimit.LoginMaxAttempts),
			buildRateLimit(deps, "auth_register_ip", deps.Config.RateLimit.RegisterMaxAttempts))

		announcementHandler := handlers.NewAnnouncementHandler(deps.Services.Announcements)
		announcementHandler.RegisterPublicRoutes(api.Group("/announcements"), cacheMiddlewares...)
		announcementHandler.RegisterStaffRoutes(api.Group("/announcements", authRequired, middleware.RequirePrivileged()))

		eventHandler := handlers.NewEventHandler(deps.Services.Events)
		eventHandler.RegisterPublicRoutes(api.Group("/events"), cacheMiddlewares...)
		eventHandler.RegisterAuthenticatedRoutes(api.Group("/events", authRequired))

		complaintHandler := handlers.NewComplaintHandler(
			deps.Services.Complaints, deps.Services.BulkStatus, deps.Stores.Complaints, deps.Metrics)
		complaintHandler.RegisterRoutes(api.Group("/complaints", authRequired))

		serviceRequestHandler := handlers.NewServiceRequestHandler(
			deps.Services.ServiceRequests, deps.Services.BulkStatus, deps.Stores.ServiceRequests, deps.Metrics)
		serviceRequestHandler.RegisterRoutes(api.Group("/services", authRequired))

		notificationHandler := handlers.NewNotificationHandler(deps.Services.Notifications)
		notificationHandler.RegisterRoutes(api.Group("/notifications", authRequired))
	}

	return r
}

func buildRateLimit(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildCacheMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.Cache == nil || deps.Config == nil || !deps.Config.Cache.Enabled {
		return nil
	}

	ttl := deps.Config.Cache.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return []gin.HandlerFunc{middleware.CacheResponse(deps.Cache, ttl, deps.Logger)}
}
