package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/pitchdeck-server/internal/logger"
)

func TestLogging_HandleHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		handler   gin.HandlerFunc
		wantCode  int
		wantLog   string
		wantLevel string
	}{
		{
			name:      "success path",
			handler:   func(c *gin.Context) { c.String(http.StatusOK, "ok") },
			wantCode:  http.StatusOK,
			wantLog:   "HTTP request completed",
			wantLevel: "level=INFO",
		},
		{
			name: "client error is a warning",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("bad input"))
				c.AbortWithStatus(http.StatusBadRequest)
			},
			wantCode:  http.StatusBadRequest,
			wantLog:   "HTTP request rejected",
			wantLevel: "level=WARN",
		},
		{
			name: "server error is logged",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("boom"))
				c.AbortWithStatus(http.StatusInternalServerError)
			},
			wantCode:  http.StatusInternalServerError,
			wantLog:   "HTTP request failed",
			wantLevel: "level=ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			lg := NewLogging(logger.NewWithWriter(&out, 0))

			r := gin.New()
			r.Use(lg.HandleHTTP)
			r.GET("/x", tt.handler)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, out.String(), tt.wantLog)
			assert.Contains(t, out.String(), tt.wantLevel)
			assert.Contains(t, out.String(), "path=/x")
		})
	}
}
