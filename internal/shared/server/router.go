package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"insights-backend/internal/insights"
	"insights-backend/internal/services/health"
	"insights-backend/internal/shared/auth"
	"insights-backend/internal/shared/config"
	"insights-backend/internal/shared/metrics"
	"insights-backend/internal/shared/server/middleware"
	"insights-backend/internal/shared/server/respond"
)

const uploadRateGroup = "UPLOAD"

// RouterDeps carries the handlers and services the router mounts.
type RouterDeps struct {
	Config         config.Config
	InsightHandler *insights.Handler
	Health         *health.Service
	Verifier       middleware.TokenVerifier
	RateLimiter    *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		metrics.Middleware(),
		middleware.Logging(),
		middleware.Recovery(cfg.IsProduction()),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		report := deps.Health.Status(c.Request.Context())
		if !report.OK {
			respond.Error(c, http.StatusServiceUnavailable, "unhealthy", "Service unavailable", report)
			return
		}
		respond.OK(c, report)
	})

	authn := middleware.Auth(deps.Verifier)
	registerMeRoutes(api, authn)

	if deps.InsightHandler != nil {
		limiter := middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				uploadRateGroup: {Rate: cfg.UploadRatePerSec, Burst: cfg.UploadRateBurst},
			},
			DefaultGroup: uploadRateGroup,
			Limiter:      deps.RateLimiter,
		})
		deps.InsightHandler.RegisterRoutes(api,
			authn,
			middleware.RequireRole(auth.RoleEditor),
			limiter,
		)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
