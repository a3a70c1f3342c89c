package handler

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pitchdeck-server/internal/export/pptx"
	"github.com/dtroode/pitchdeck-server/internal/logger"
	"github.com/dtroode/pitchdeck-server/internal/model"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// DeckService defines business operations for decks.
type DeckService interface {
	Generate(ctx context.Context, params model.GenerateParams) (model.Deck, error)
	Regenerate(ctx context.Context, id string, params model.RegenerateParams) (model.Deck, error)
	CreatePlaceholder(ctx context.Context, params model.PlaceholderParams, video io.Reader) (model.Deck, error)
	GetDeck(ctx context.Context, id string) (model.Deck, error)
	ListDecks(ctx context.Context) ([]model.IndexEntry, error)
	Video(ctx context.Context, id string) (io.ReadCloser, error)
	Export(ctx context.Context, id, theme string, w io.Writer) (model.Deck, error)
	Script(ctx context.Context, id string) (string, error)
}

// Deck handles HTTP endpoints for decks.
type Deck struct {
	deckService    DeckService
	maxUploadBytes int64
	logger         *logger.Logger
}

// NewDeck creates a new Deck handler.
func NewDeck(deckService DeckService, maxUploadBytes int64, logger *logger.Logger) *Deck {
	return &Deck{
		deckService:    deckService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ListDecks returns the deck index, newest first.
func (h *Deck) ListDecks(c *gin.Context) {
	entries, err := h.deckService.ListDecks(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if entries == nil {
		entries = []model.IndexEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// GetDeck returns a single deck.
func (h *Deck) GetDeck(c *gin.Context) {
	deck, err := h.deckService.GetDeck(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, deck)
}

// Generate accepts a multipart video upload and builds a deck from it.
func (h *Deck) Generate(c *gin.Context) {
	h.limitBody(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		handleError(c, uploadError(err, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	keepVideo, err := parseBool(c.PostForm("keepVideo"))
	if err != nil {
		handleError(c, err)
		return
	}

	h.logger.Debug("Deck handler: processing generate request",
		"filename", fileHeader.Filename,
		"size", fileHeader.Size,
		"keep_video", keepVideo)

	deck, err := h.deckService.Generate(c.Request.Context(), model.GenerateParams{
		Filename:     fileHeader.Filename,
		Video:        file,
		Language:     c.PostForm("language"),
		Objective:    c.PostForm("objective"),
		Tone:         c.PostForm("tone"),
		SlidesNumber: parseSlides(c.PostForm("slidesNumber")),
		KeepVideo:    keepVideo,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deck)
}

type placeholderRequest struct {
	model.PlaceholderParams
	Preset string `json:"preset"`
}

// CreatePlaceholder builds a demo deck. It accepts a JSON body, or a
// multipart form with an optional "file" video.
func (h *Deck) CreatePlaceholder(c *gin.Context) {
	var (
		req   placeholderRequest
		video io.Reader
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.limitBody(c)

		req.Objective = c.PostForm("objective")
		req.Tone = c.PostForm("tone")
		req.VideoURL = c.PostForm("videoUrl")
		req.Preset = c.PostForm("preset")
		if v := c.PostForm("slideCount"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				handleError(c, fmt.Errorf("%w: slideCount must be a number", model.ErrInvalidInput))
				return
			}
			req.SlideCount = n
		}

		fileHeader, err := c.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			handleError(c, uploadError(err, "invalid multipart form"))
			return
		default:
			file, err := fileHeader.Open()
			if err != nil {
				handleError(c, fmt.Errorf("failed to open upload: %w", err))
				return
			}
			defer file.Close()
			video = file
		}
	} else if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			handleError(c, fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
			return
		}
	}

	if req.SlideCount == 0 {
		req.SlideCount = model.SlideCountForPreset(req.Preset)
	}

	deck, err := h.deckService.CreatePlaceholder(c.Request.Context(), req.PlaceholderParams, video)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deck)
}

// Regenerate reprocesses the stored video of a deck.
func (h *Deck) Regenerate(c *gin.Context) {
	var params model.RegenerateParams
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			handleError(c, fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
			return
		}
	}

	deck, err := h.deckService.Regenerate(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, deck)
}

// Video streams the stored source video of a deck.
func (h *Deck) Video(c *gin.Context) {
	r, err := h.deckService.Video(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	defer r.Close()

	br := bufio.NewReaderSize(r, 512)
	head, _ := br.Peek(512)
	contentType := http.DetectContentType(head)

	c.DataFromReader(http.StatusOK, -1, contentType, br, nil)
}

// Export renders the deck as a .pptx attachment.
func (h *Deck) Export(c *gin.Context) {
	var buf bytes.Buffer
	deck, err := h.deckService.Export(c.Request.Context(), c.Param("id"), c.Query("theme"), &buf)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pptx.FileName(deck)))
	c.Data(http.StatusOK, pptxContentType, buf.Bytes())
}

// Script returns the presenter script as plain text.
func (h *Deck) Script(c *gin.Context) {
	script, err := h.deckService.Script(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(script))
}

// Themes lists the export themes.
func (h *Deck) Themes(c *gin.Context) {
	c.JSON(http.StatusOK, model.Themes())
}

func (h *Deck) limitBody(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
}

// uploadError keeps body size errors and reports the rest as invalid input.
func uploadError(err error, msg string) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("%w: %s", model.ErrInvalidInput, msg)
}

// parseSlides accepts a number or one of the dashboard presets.
func parseSlides(v string) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return model.SlideCountForPreset(v)
}

func parseBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: keepVideo must be a boolean", model.ErrInvalidInput)
	}
	return b, nil
}
