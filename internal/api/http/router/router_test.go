package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/pitchdeck-server/internal/mocks"
	"github.com/dtroode/pitchdeck-server/internal/model"
	"github.com/dtroode/pitchdeck-server/internal/testutil"
)

func newTestRouter(t *testing.T, origins []string) (*gin.Engine, *mocks.DeckService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := mocks.NewDeckService(t)
	r := New(svc, Config{AllowedOrigins: origins, MaxUploadBytes: 1 << 20}, testutil.MakeNoopLogger())
	return r.Register(), svc
}

func TestRouter_Healthz(t *testing.T) {
	engine, _ := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_DeckRoutes(t *testing.T) {
	engine, svc := newTestRouter(t, nil)
	svc.On("ListDecks", mock.Anything).Return([]model.IndexEntry{}, nil).Once()
	svc.On("GetDeck", mock.Anything, "deck_1").Return(model.Deck{ID: "deck_1"}, nil).Once()
	svc.On("Script", mock.Anything, "deck_1").Return("", nil).Once()

	for _, path := range []string{"/api/decks", "/api/decks/deck_1", "/api/decks/deck_1/script", "/api/themes"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	engine, _ := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/decks/deck_1", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_CORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantHeader string
	}{
		{name: "allowed origin", origins: []string{"http://localhost:3000"}, origin: "http://localhost:3000", wantHeader: "http://localhost:3000"},
		{name: "foreign origin", origins: []string{"http://localhost:3000"}, origin: "http://evil.example", wantHeader: ""},
		{name: "wildcard", origins: []string{"*"}, origin: "http://any.example", wantHeader: "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestRouter(t, tt.origins)

			req := httptest.NewRequest(http.MethodOptions, "/api/decks", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
