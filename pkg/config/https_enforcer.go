package config

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTPSEnforcer redirects plain HTTP requests to their https:// equivalent.
// Loopback hosts are exempt so local development keeps working over HTTP.
type HTTPSEnforcer struct {
	enabled bool
	logger  *zap.Logger
}

func NewHTTPSEnforcer(enabled bool, logger *zap.Logger) *HTTPSEnforcer {
	return &HTTPSEnforcer{
		enabled: enabled,
		logger:  logger,
	}
}

func (he *HTTPSEnforcer) HTTPSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !he.enabled || isSecure(c.Request) || isLoopbackHost(c.Request.Host) {
			c.Next()
			return
		}

		target := (&url.URL{
			Scheme:   "https",
			Host:     c.Request.Host,
			Path:     c.Request.URL.Path,
			RawQuery: c.Request.URL.RawQuery,
		}).String()

		he.logger.Info("Redirecting to HTTPS",
			zap.String("method", c.Request.Method),
			zap.String("original_url", c.Request.URL.String()),
			zap.String("https_url", target))

		// 308 keeps the method and body of PUT/POST requests.
		c.Redirect(http.StatusPermanentRedirect, target)
		c.Abort()
	}
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func isLoopbackHost(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	if strings.EqualFold(host, "localhost") {
		return true
	}

	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
