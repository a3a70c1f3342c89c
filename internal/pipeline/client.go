package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dtroode/pitchdeck-server/internal/logger"
	"github.com/dtroode/pitchdeck-server/internal/model"
)

const (
	uploadPath  = "/api/uploads"
	processPath = "/cloud/process-from-upload"

	// maxErrorBody bounds how much of a failed response is kept in HTTPError.
	maxErrorBody = 4 << 10
)

var (
	ErrProcessingFailed  = errors.New("backend reported processing failure")
	ErrMalformedResponse = errors.New("malformed backend response")
)

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("pipeline %s: http %d: %s", e.Op, e.StatusCode, e.Body)
}

// Config contains the backend location and request timeout.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

var _ model.Pipeline = (*Client)(nil)

// Client talks to the external processing backend. Calls are never retried.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

func NewClient(cfg Config, logger *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("pipeline base url required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With("client", "pipeline"),
	}, nil
}

// UploadVideo streams the video to the backend as multipart field "file".
func (c *Client) UploadVideo(ctx context.Context, filename string, reader io.Reader) (model.UploadResult, error) {
	if filename == "" {
		filename = "video.webm"
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	// done closes once the writer has stopped reading the video, so callers
	// may reuse the reader after UploadVideo returns.
	done := make(chan struct{})
	go func() {
		defer close(done)
		part, err := form.CreateFormFile("file", filepath.Base(filename))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, reader); err != nil {
			pw.CloseWithError(fmt.Errorf("failed to read video: %w", err))
			return
		}
		pw.CloseWithError(form.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, pr)
	if err != nil {
		pr.Close()
		<-done
		return model.UploadResult{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	start := time.Now()
	raw, err := c.do(req, "upload")
	// Unblock the writer goroutine if the request ended before the body was consumed.
	pr.CloseWithError(io.ErrClosedPipe)
	<-done
	if err != nil {
		return model.UploadResult{}, err
	}

	var out model.UploadResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return model.UploadResult{}, fmt.Errorf("%w: upload: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(out.ID) == "" {
		return model.UploadResult{}, fmt.Errorf("%w: upload returned empty id", ErrMalformedResponse)
	}

	c.logger.Info("video uploaded",
		"upload_id", out.ID,
		"size", out.Size,
		"duration_ms", time.Since(start).Milliseconds())

	return out, nil
}

type processResponse struct {
	OK        *bool `json:"ok"`
	PitchDeck *struct {
		Summary    string               `json:"summary"`
		Highlights []model.Highlight    `json:"highlights"`
		Slides     []model.SlideOutline `json:"slides"`
		Script     []model.ScriptEntry  `json:"script"`
	} `json:"pitch_deck"`
	InputVideoURL string   `json:"input_video_url"`
	AudioURL      string   `json:"audio_url"`
	FrameURLs     []string `json:"frame_urls"`
	SrtURL        string   `json:"srt_url"`
}

// ProcessFromUpload asks the backend to generate a deck and validates the response shape.
func (c *Client) ProcessFromUpload(ctx context.Context, in model.ProcessRequest) (model.ProcessResult, error) {
	if strings.TrimSpace(in.UploadID) == "" {
		return model.ProcessResult{}, fmt.Errorf("upload id required")
	}

	body, err := json.Marshal(in)
	if err != nil {
		return model.ProcessResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+processPath, bytes.NewReader(body))
	if err != nil {
		return model.ProcessResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	raw, err := c.do(req, "process")
	if err != nil {
		return model.ProcessResult{}, err
	}

	var resp processResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return model.ProcessResult{}, fmt.Errorf("%w: process: %v", ErrMalformedResponse, err)
	}
	if resp.OK == nil {
		return model.ProcessResult{}, fmt.Errorf("%w: process: missing ok", ErrMalformedResponse)
	}
	if !*resp.OK {
		return model.ProcessResult{}, ErrProcessingFailed
	}
	if resp.PitchDeck == nil {
		return model.ProcessResult{}, fmt.Errorf("%w: process: missing pitch_deck", ErrMalformedResponse)
	}
	if resp.PitchDeck.Slides == nil {
		return model.ProcessResult{}, fmt.Errorf("%w: process: missing pitch_deck.slides", ErrMalformedResponse)
	}

	c.logger.Info("deck processed",
		"upload_id", in.UploadID,
		"slides", len(resp.PitchDeck.Slides),
		"frames", len(resp.FrameURLs),
		"duration_ms", time.Since(start).Milliseconds())

	return model.ProcessResult{
		Summary:       resp.PitchDeck.Summary,
		Highlights:    resp.PitchDeck.Highlights,
		Slides:        resp.PitchDeck.Slides,
		Script:        resp.PitchDeck.Script,
		FrameURLs:     resp.FrameURLs,
		VideoURL:      resp.InputVideoURL,
		AudioURL:      resp.AudioURL,
		TranscriptURL: resp.SrtURL,
	}, nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return nil, &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return raw, nil
}
