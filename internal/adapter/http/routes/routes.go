package routes

import (
	"taskapp/internal/adapter/http/handler"
	. "taskapp/internal/adapter/http/helper"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/core/telemetry"
	"taskapp/pkg/config"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.LokiLogger, cfg *config.AppConfig) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = false

	middleware.SetupGinMiddlewareWithConfig(router, metrics, logger, cfg)

	setupAPIRoutes(router, handlers)

	return router
}

func setupAPIRoutes(router *gin.Engine, handlers HandlersConfig) {
	api := router.Group("/api")

	if handlers.HealthHandler != nil {
		api.GET("/health", handlers.HealthHandler.Health)
	}

	if handlers.TaskHandler != nil {
		tasks := api.Group("/tasks")
		{
			tasks.GET("", handlers.TaskHandler.ListTasks)
			tasks.GET("/:id", handlers.TaskHandler.GetTask)
			tasks.POST("", handlers.TaskHandler.CreateTask)
			tasks.PUT("/:id", handlers.TaskHandler.UpdateTask)
			tasks.DELETE("/:id", handlers.TaskHandler.DeleteTask)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		SendNotFoundError(c, "The requested resource was not found.")
	})
}
