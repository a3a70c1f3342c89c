package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pitchdeck-server/internal/logger"
)

// Logging is a gin middleware that logs HTTP requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleHTTP logs method, path, duration and status for each request.
func (l *Logging) HandleHTTP(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path

	l.logger.Debug("HTTP request started",
		"method", c.Request.Method,
		"path", path)

	c.Next()

	status := c.Writer.Status()
	l.logger.Info("HTTP request completed",
		"method", c.Request.Method,
		"path", path,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"ip", c.ClientIP())

	if len(c.Errors) == 0 {
		return
	}

	if status >= http.StatusInternalServerError {
		l.logger.Error("HTTP request failed",
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"error", c.Errors.String())
		return
	}
	l.logger.Warn("HTTP request rejected",
		"method", c.Request.Method,
		"path", path,
		"status", status,
		"error", c.Errors.String())
}
