package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"taskapp/pkg/config"
)

func TestLoggingMiddleware_LevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	logger := config.WrapZapLogger(zap.New(core), "taskapp", "")

	router := gin.New()
	router.Use(CurrentMiddleware(), LoggingMiddleware(logger))
	router.GET("/api/tasks", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/tasks", "/api/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	require.Equal(t, 2, logs.Len())

	ok := logs.All()[0]
	assert.Equal(t, zap.InfoLevel, ok.Level)
	assert.Equal(t, int64(http.StatusOK), ok.ContextMap()["status"])

	missing := logs.All()[1]
	assert.Equal(t, zap.WarnLevel, missing.Level)
	assert.Equal(t, "/api/missing", missing.ContextMap()["path"])
	assert.Equal(t, int64(http.StatusNotFound), missing.ContextMap()["status"])
}
