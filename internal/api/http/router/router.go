package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dtroode/pitchdeck-server/internal/api/http/handler"
	"github.com/dtroode/pitchdeck-server/internal/api/http/middleware"
	"github.com/dtroode/pitchdeck-server/internal/logger"
)

// Config holds transport settings of the router.
type Config struct {
	AllowedOrigins []string
	MaxUploadBytes int64
}

// Router represents the HTTP router of the deck API.
type Router struct {
	deckService handler.DeckService
	config      Config
	logger      *logger.Logger
}

// New creates new Router instance.
func New(deckService handler.DeckService, config Config, logger *logger.Logger) *Router {
	return &Router{
		deckService: deckService,
		config:      config,
		logger:      logger,
	}
}

// Register builds the gin engine with middleware and all routes.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(gin.Recovery())
	engine.Use(logging.HandleHTTP)
	engine.Use(cors.New(r.corsConfig()))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.registerDeckRoutes(engine)

	return engine
}

func (r *Router) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	origins := r.config.AllowedOrigins
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (r *Router) registerDeckRoutes(engine *gin.Engine) {
	h := handler.NewDeck(r.deckService, r.config.MaxUploadBytes, r.logger)

	api := engine.Group("/api")
	api.GET("/themes", h.Themes)

	decks := api.Group("/decks")
	decks.GET("", h.ListDecks)
	decks.POST("", h.Generate)
	decks.POST("/placeholder", h.CreatePlaceholder)
	decks.GET("/:id", h.GetDeck)
	decks.POST("/:id/regenerate", h.Regenerate)
	decks.GET("/:id/video", h.Video)
	decks.GET("/:id/export", h.Export)
	decks.GET("/:id/script", h.Script)
}
