package handler

import (
	"net/http"
	"time"

	"taskapp/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.HealthResponse{
		Status:       "ok",
		TimestampUtc: h.now().UTC(),
	})
}
