package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pitchdeck-server/internal/model"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		in         error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "not found -> 404",
			in:         fmt.Errorf("deck x: %w", model.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantMsg:    "deck not found",
		},
		{
			name:       "corrupt record -> 404",
			in:         model.ErrCorruptRecord,
			wantStatus: http.StatusNotFound,
			wantMsg:    "deck not found",
		},
		{
			name:       "video unavailable -> 404",
			in:         model.ErrVideoUnavailable,
			wantStatus: http.StatusNotFound,
			wantMsg:    "source video unavailable",
		},
		{
			name:       "body too large -> 413",
			in:         fmt.Errorf("read form: %w", &http.MaxBytesError{Limit: 10}),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantMsg:    "upload too large",
		},
		{
			name:       "invalid input -> 400 with message",
			in:         fmt.Errorf("%w: file is required", model.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid input: file is required",
		},
		{
			name:       "pipeline failure -> 502",
			in:         fmt.Errorf("%w: failed to upload video: %w", model.ErrPipelineFailed, errors.New("dial tcp")),
			wantStatus: http.StatusBadGateway,
			wantMsg:    "processing backend failed",
		},
		{
			name:       "other -> 500",
			in:         errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleError(c, tt.in)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())
			require.Len(t, c.Errors, 1)

			var body errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}
