package middleware

import (
	"taskapp/internal/core/telemetry"
	"taskapp/pkg/config"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// SetupGinMiddlewareWithConfig installs the shared chain; the error middleware sits innermost
// so logging and metrics observe the final status.
func SetupGinMiddlewareWithConfig(router *gin.Engine, metrics *telemetry.AppMetrics, logger *config.LokiLogger, cfg *config.AppConfig) {
	router.Use(CurrentMiddleware())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(LoggingMiddleware(logger))

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}

	router.Use(ErrorMiddleware(logger))

	router.Use(config.NewHTTPSEnforcer(cfg.EnforceHTTPS, logger.Logger.Logger).HTTPSMiddleware())
	router.Use(CORSMiddleware(cfg.CORS.AllowedOrigins))

	if cfg.RateLimitEnabled {
		rateLimiter := config.NewRateLimiter(cfg.RateLimitConfigs, logger.Logger.Logger, metrics)
		router.Use(rateLimiter.RateLimitMiddleware())
	}
}
