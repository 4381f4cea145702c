package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"taskapp/internal/adapter/http/routes"
	"taskapp/internal/core/port"
	"taskapp/internal/core/telemetry"
	"taskapp/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func NewRouter(container *Container, metrics *telemetry.AppMetrics, logger *config.LokiLogger, cfg *config.AppConfig) *gin.Engine {
	return routes.SetupRouterWithConfig(routes.HandlersConfig{
		TaskHandler:   container.TaskHandler,
		HealthHandler: container.HealthHandler,
	}, metrics, logger, cfg)
}

// StartServerWithConfig serves until ctx is canceled, then drains in-flight requests.
func StartServerWithConfig(ctx context.Context, cfg *config.AppConfig, logger *config.LokiLogger, probe port.Telemetry, metrics *telemetry.AppMetrics) error {
	container, err := NewContainer(ctx, cfg, logger, probe, metrics)
	if err != nil {
		return err
	}
	defer container.Close()

	router := NewRouter(container, metrics, logger, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logger.Logger.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
		zap.Bool("https_enforced", cfg.EnforceHTTPS))

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Logger.Error("Server failed to start", zap.Error(err))
		return err

	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Logger.Info("Server shutting down")

	return srv.Shutdown(shutdownCtx)
}
