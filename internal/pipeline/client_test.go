package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pitchdeck-server/internal/model"
	"github.com/dtroode/pitchdeck-server/internal/testutil"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second}, testutil.MakeNoopLogger())
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "  "}, testutil.MakeNoopLogger())
	assert.Nil(t, c)
	assert.Error(t, err)
}

func TestClient_UploadVideo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/uploads", r.URL.Path)

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			body, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "demo.mp4", header.Filename)
			assert.Equal(t, "video-bytes", string(body))

			_ = json.NewEncoder(w).Encode(model.UploadResult{
				ID: "up_1", Key: "uploads/up_1", Size: int64(len(body)), ContentType: "video/mp4", GetURL: "https://cdn.example/up_1",
			})
		})

		res, err := c.UploadVideo(context.Background(), "/tmp/demo.mp4", strings.NewReader("video-bytes"))
		require.NoError(t, err)
		assert.Equal(t, "up_1", res.ID)
		assert.Equal(t, int64(11), res.Size)
		assert.Equal(t, "https://cdn.example/up_1", res.GetURL)
	})

	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "too large", http.StatusRequestEntityTooLarge)
		})

		_, err := c.UploadVideo(context.Background(), "demo.mp4", strings.NewReader("x"))
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusRequestEntityTooLarge, httpErr.StatusCode)
		assert.Equal(t, "upload", httpErr.Op)
		assert.Equal(t, "too large", httpErr.Body)
	})

	t.Run("empty id", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			_, _ = w.Write([]byte(`{"key":"k"}`))
		})

		_, err := c.UploadVideo(context.Background(), "demo.mp4", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("transport error", func(t *testing.T) {
		c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, testutil.MakeNoopLogger())
		require.NoError(t, err)

		_, err = c.UploadVideo(context.Background(), "demo.mp4", strings.NewReader("x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pipeline upload")
	})

	t.Run("early reply stops reading before return", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "busy", http.StatusServiceUnavailable)
		})

		video := &countingReader{}
		video.left.Store(256 << 20)

		_, err := c.UploadVideo(context.Background(), "demo.mp4", video)
		require.Error(t, err)

		reads := video.reads.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, reads, video.reads.Load())
		assert.Positive(t, video.left.Load())
	})

	t.Run("reader error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			_, _ = w.Write([]byte(`{"id":"up_1"}`))
		})

		_, err := c.UploadVideo(context.Background(), "demo.mp4", errReader{})
		assert.Error(t, err)
	})
}

type errReader struct{}

// countingReader yields zero bytes up to limit and counts Read calls.
type countingReader struct {
	reads atomic.Int64
	left  atomic.Int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	r.reads.Add(1)
	left := r.left.Load()
	if left <= 0 {
		return 0, io.EOF
	}
	n := min(int64(len(p)), left)
	clear(p[:n])
	r.left.Add(-n)
	return int(n), nil
}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

const processOK = `{
  "ok": true,
  "pitch_deck": {
    "summary": "A tool that turns videos into decks.",
    "highlights": [{"label": "hook", "summary": "opening"}],
    "slides": [{"title": "Problem", "bullets": ["a", "b"]}, {"title": "Ask", "bullets": []}],
    "script": [{"slide": 2, "what_to_say": "We are raising."}]
  },
  "input_video_url": "https://cdn.example/in.mp4",
  "audio_url": "https://cdn.example/in.wav",
  "frame_urls": ["https://cdn.example/f0.jpg"],
  "srt_url": "https://cdn.example/in.srt"
}`

func TestClient_ProcessFromUpload(t *testing.T) {
	req := model.ProcessRequest{UploadID: "up_1", Language: "en", Objective: "Investors", Tone: "Executive", SlidesNumber: 7}

	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/cloud/process-from-upload", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var got map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, "up_1", got["uploadId"])
			assert.Equal(t, "en", got["language"])
			assert.Equal(t, "Investors", got["objective"])
			assert.Equal(t, "Executive", got["tone"])
			assert.Equal(t, float64(7), got["slidesNumber"])

			_, _ = w.Write([]byte(processOK))
		})

		res, err := c.ProcessFromUpload(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "A tool that turns videos into decks.", res.Summary)
		assert.Len(t, res.Slides, 2)
		assert.Equal(t, []model.ScriptEntry{{Slide: 2, WhatToSay: "We are raising."}}, res.Script)
		assert.Equal(t, []string{"https://cdn.example/f0.jpg"}, res.FrameURLs)
		assert.Equal(t, "https://cdn.example/in.mp4", res.VideoURL)
		assert.Equal(t, "https://cdn.example/in.wav", res.AudioURL)
		assert.Equal(t, "https://cdn.example/in.srt", res.TranscriptURL)
		assert.Equal(t, []model.Highlight{{Label: "hook", Summary: "opening"}}, res.Highlights)
	})

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "ok false", status: http.StatusOK, body: `{"ok": false}`, wantErr: ErrProcessingFailed},
		{name: "missing ok", status: http.StatusOK, body: `{"pitch_deck": {"slides": []}}`, wantErr: ErrMalformedResponse},
		{name: "missing pitch deck", status: http.StatusOK, body: `{"ok": true}`, wantErr: ErrMalformedResponse},
		{name: "missing slides", status: http.StatusOK, body: `{"ok": true, "pitch_deck": {"summary": "s"}}`, wantErr: ErrMalformedResponse},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.ProcessFromUpload(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("empty slides are valid", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok": true, "pitch_deck": {"summary": "s", "slides": []}}`))
		})

		res, err := c.ProcessFromUpload(context.Background(), req)
		require.NoError(t, err)
		assert.NotNil(t, res.Slides)
		assert.Empty(t, res.Slides)
	})

	t.Run("http error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		})

		_, err := c.ProcessFromUpload(context.Background(), req)
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	})

	t.Run("upload id required", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("request must not be sent")
		})

		_, err := c.ProcessFromUpload(context.Background(), model.ProcessRequest{})
		assert.Error(t, err)
	})
}
