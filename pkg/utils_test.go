package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func clientIPFor(headers map[string]string, remoteAddr string) string {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/tasks", nil)
	c.Request.RemoteAddr = remoteAddr
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}

	return GetClientIP(c)
}

func TestGetClientIP(t *testing.T) {
	t.Run("should use the first forwarded address", func(t *testing.T) {
		ip := clientIPFor(map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:1234")
		assert.Equal(t, "203.0.113.7", ip)
	})

	t.Run("should skip garbage in X-Forwarded-For", func(t *testing.T) {
		ip := clientIPFor(map[string]string{"X-Forwarded-For": "unknown, 198.51.100.3"}, "10.0.0.2:1234")
		assert.Equal(t, "198.51.100.3", ip)
	})

	t.Run("should fall back to X-Real-IP", func(t *testing.T) {
		ip := clientIPFor(map[string]string{"X-Real-IP": "198.51.100.9"}, "10.0.0.2:1234")
		assert.Equal(t, "198.51.100.9", ip)
	})

	t.Run("should fall back to the connection address", func(t *testing.T) {
		assert.Equal(t, "192.0.2.1", clientIPFor(nil, "192.0.2.1:5555"))
	})
}
