// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"frontuser/internal/domain/auth"
	"frontuser/internal/domain/party"
	"frontuser/internal/domain/user"
	"frontuser/internal/infrastructure/http/v1/handlers"
	"frontuser/internal/infrastructure/http/v1/middleware"
	"frontuser/internal/infrastructure/metrics"
	"frontuser/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// AuthService logs in, logs out and builds security contexts
	AuthService *auth.Service

	// PartyService backs current user resolution
	PartyService party.Service

	// Metrics is optional; nil disables /metrics and request metrics
	Metrics *metrics.Metrics

	// HealthChecks run on /health/ready
	HealthChecks map[string]handlers.Check

	// SessionCookie configures the session cookie
	SessionCookie handlers.CookieConfig
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.SecurityContext(cfg.AuthService, cfg.SessionCookie.Name))
	v1.Use(middleware.CurrentUser(cfg.PartyService, resolverMetrics(cfg.Metrics)))
	{
		baseHandler := handlers.NewBaseHandler()

		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService, cfg.SessionCookie, loginObserver(cfg.Metrics))
		authHandler.RegisterRoutes(v1.Group("/auth"))

		meHandler := handlers.NewMeHandler(baseHandler)
		v1.GET("/me", meHandler.Me)
	}

	return router
}

// resolverMetrics avoids handing a typed nil to the resolver.
func resolverMetrics(m *metrics.Metrics) user.ResolverMetrics {
	if m == nil {
		return nil
	}
	return m
}

func loginObserver(m *metrics.Metrics) handlers.LoginObserver {
	if m == nil {
		return nil
	}
	return m
}
