package pkg

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetClientIP prefers the first valid address in X-Forwarded-For, then
// X-Real-IP, then the connection address.
func GetClientIP(c *gin.Context) string {
	for _, candidate := range strings.Split(c.GetHeader("X-Forwarded-For"), ",") {
		if ip := net.ParseIP(strings.TrimSpace(candidate)); ip != nil {
			return ip.String()
		}
	}

	if ip := net.ParseIP(strings.TrimSpace(c.GetHeader("X-Real-IP"))); ip != nil {
		return ip.String()
	}

	if ip := c.ClientIP(); ip != "" {
		return ip
	}

	return "unknown"
}
