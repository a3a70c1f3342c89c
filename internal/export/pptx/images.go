package pptx

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"net/http"
	"time"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSource resolves slide image URLs to image bytes.
type ImageSource interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPImageSource downloads images over HTTP(S).
type HTTPImageSource struct {
	client   *http.Client
	maxBytes int64
}

func NewHTTPImageSource(timeout time.Duration, maxBytes int64) *HTTPImageSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &HTTPImageSource{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

func (s *HTTPImageSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image %s: http %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", url, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("image %s exceeds %d bytes", url, s.maxBytes)
	}
	return data, nil
}

// media is an image decoded far enough to be embedded.
type media struct {
	data   []byte
	ext    string
	width  int
	height int
}

// Formats embedded as fetched. Other decodable formats (webp, bmp, tiff)
// are converted to PNG.
var extByFormat = map[string]string{
	"png":  "png",
	"jpeg": "jpeg",
	"gif":  "gif",
}

// maxConvertedWidth bounds images re-encoded as PNG; video frames are
// often larger than the slide needs.
const maxConvertedWidth = 1600

func decodeMedia(data []byte) (media, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return media{}, fmt.Errorf("unsupported image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return media{}, fmt.Errorf("image has no size")
	}
	if ext, ok := extByFormat[format]; ok {
		return media{data: data, ext: ext, width: cfg.Width, height: cfg.Height}, nil
	}
	return convertToPNG(data, format)
}

func convertToPNG(data []byte, format string) (media, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return media{}, fmt.Errorf("decode %s image: %w", format, err)
	}

	b := img.Bounds()
	if b.Dx() > maxConvertedWidth {
		h := max(1, int(math.Round(float64(b.Dy())*maxConvertedWidth/float64(b.Dx()))))
		dst := image.NewRGBA(image.Rect(0, 0, maxConvertedWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
		b = dst.Bounds()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return media{}, fmt.Errorf("encode %s image as png: %w", format, err)
	}
	return media{data: buf.Bytes(), ext: "png", width: b.Dx(), height: b.Dy()}, nil
}

// fit scales an image into the box, preserving aspect ratio, centered.
func (m media) fit(box rect) rect {
	scale := min(float64(box.cx)/float64(m.width), float64(box.cy)/float64(m.height))
	cx := int64(math.Round(float64(m.width) * scale))
	cy := int64(math.Round(float64(m.height) * scale))
	return rect{
		x:  box.x + (box.cx-cx)/2,
		y:  box.y + (box.cy-cy)/2,
		cx: cx,
		cy: cy,
	}
}
