package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pitchdeck-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleError writes the status and message for err and records it on the context.
func handleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrCorruptRecord):
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "deck not found"})
	case errors.Is(err, model.ErrVideoUnavailable):
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "source video unavailable"})
	case errors.As(err, &maxBytesErr):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "upload too large"})
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrInvalidDeck):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrPipelineFailed):
		c.AbortWithStatusJSON(http.StatusBadGateway, errorResponse{Error: "processing backend failed"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
