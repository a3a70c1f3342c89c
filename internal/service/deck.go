package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dtroode/pitchdeck-server/internal/builder"
	"github.com/dtroode/pitchdeck-server/internal/logger"
	"github.com/dtroode/pitchdeck-server/internal/model"
)

const defaultLanguage = "en"

// Exporter renders a deck into a presentation file.
type Exporter interface {
	Export(ctx context.Context, deck model.Deck, theme model.Theme, w io.Writer) error
}

type Deck struct {
	store        model.DeckStore
	blobs        model.BlobStore
	pipeline     model.Pipeline
	exporter     Exporter
	builder      *builder.Builder
	newID        func() string
	defaultTheme string
	logger       *logger.Logger
}

func NewDeck(
	store model.DeckStore,
	blobs model.BlobStore,
	pipeline model.Pipeline,
	exporter Exporter,
	defaultTheme string,
	logger *logger.Logger,
) *Deck {
	if defaultTheme == "" {
		defaultTheme = model.DefaultTheme
	}
	return &Deck{
		store:        store,
		blobs:        blobs,
		pipeline:     pipeline,
		exporter:     exporter,
		builder:      builder.New(store),
		newID:        builder.NewDeckID,
		defaultTheme: defaultTheme,
		logger:       logger,
	}
}

// Generate uploads the video, asks the backend for a deck and persists it.
// Nothing is written when the backend call fails.
func (s *Deck) Generate(ctx context.Context, params model.GenerateParams) (model.Deck, error) {
	if params.Video == nil {
		return model.Deck{}, fmt.Errorf("%w: video is required", model.ErrInvalidInput)
	}
	if params.SlidesNumber < 0 {
		return model.Deck{}, fmt.Errorf("%w: negative slides number %d", model.ErrInvalidInput, params.SlidesNumber)
	}

	video := params.Video
	var spooled *os.File
	if params.KeepVideo {
		f, err := spool(params.Video)
		if err != nil {
			return model.Deck{}, fmt.Errorf("failed to buffer video: %w", err)
		}
		defer func() {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}()
		spooled = f
		video = f
	}

	deck, err := s.process(ctx, s.newID(), params.Filename, video, processOptions{
		language:     params.Language,
		objective:    params.Objective,
		tone:         params.Tone,
		slidesNumber: params.SlidesNumber,
	})
	if err != nil {
		return model.Deck{}, err
	}

	if spooled != nil {
		s.keepVideo(ctx, deck.ID, spooled)
	}

	return deck, nil
}

// Regenerate reprocesses the stored source video of a deck and overwrites
// the deck under the same id, keeping its creation time. The rebuilt deck
// moves to the front of the index.
func (s *Deck) Regenerate(ctx context.Context, id string, params model.RegenerateParams) (model.Deck, error) {
	if params.SlidesNumber < 0 {
		return model.Deck{}, fmt.Errorf("%w: negative slides number %d", model.ErrInvalidInput, params.SlidesNumber)
	}

	existing, err := s.GetDeck(ctx, id)
	if err != nil {
		return model.Deck{}, err
	}

	exists, err := s.blobs.Exists(ctx, id)
	if err != nil {
		s.logger.Warn("failed to check source video", "deck_id", id, "error", err)
	}
	if !exists {
		return model.Deck{}, fmt.Errorf("deck %s: %w", id, model.ErrVideoUnavailable)
	}

	video, err := s.Video(ctx, id)
	if err != nil {
		return model.Deck{}, err
	}
	defer video.Close()

	opts := processOptions{
		createdAt:    existing.CreatedAt,
		language:     params.Language,
		objective:    firstNonEmpty(params.Objective, existing.Objective),
		tone:         firstNonEmpty(params.Tone, existing.Tone),
		slidesNumber: params.SlidesNumber,
	}
	if opts.slidesNumber == 0 {
		opts.slidesNumber = len(existing.Slides)
	}

	deck, err := s.process(ctx, id, id+".webm", video, opts)
	if err != nil {
		return model.Deck{}, err
	}

	s.logger.Info("deck regenerated", "deck_id", id, "slides", len(deck.Slides))

	return deck, nil
}

type processOptions struct {
	createdAt    int64
	language     string
	objective    string
	tone         string
	slidesNumber int
}

func (s *Deck) process(ctx context.Context, id, filename string, video io.Reader, opts processOptions) (model.Deck, error) {
	if opts.language == "" {
		opts.language = defaultLanguage
	}
	if opts.slidesNumber == 0 {
		opts.slidesNumber = model.SlideCountForPreset("")
	}

	upload, err := s.pipeline.UploadVideo(ctx, filename, video)
	if err != nil {
		return model.Deck{}, fmt.Errorf("%w: failed to upload video: %w", model.ErrPipelineFailed, err)
	}

	res, err := s.pipeline.ProcessFromUpload(ctx, model.ProcessRequest{
		UploadID:     upload.ID,
		Language:     opts.language,
		Objective:    opts.objective,
		Tone:         opts.tone,
		SlidesNumber: opts.slidesNumber,
	})
	if err != nil {
		return model.Deck{}, fmt.Errorf("%w: failed to process upload: %w", model.ErrPipelineFailed, err)
	}

	deck, err := s.builder.FromProcessingResult(id, opts.objective, opts.tone, res)
	if err != nil {
		return model.Deck{}, fmt.Errorf("%w: failed to build deck: %w", model.ErrPipelineFailed, err)
	}
	if opts.createdAt != 0 {
		deck.CreatedAt = opts.createdAt
	}

	if err := s.store.Save(ctx, deck); err != nil {
		return model.Deck{}, fmt.Errorf("failed to save deck: %w", err)
	}

	return deck, nil
}

// CreatePlaceholder builds an offline demo deck. A non-nil video is kept
// under the new deck id.
func (s *Deck) CreatePlaceholder(ctx context.Context, params model.PlaceholderParams, video io.Reader) (model.Deck, error) {
	if params.SlideCount < 0 {
		return model.Deck{}, fmt.Errorf("%w: negative slide count %d", model.ErrInvalidInput, params.SlideCount)
	}

	deck, err := s.builder.Placeholder(ctx, params)
	if err != nil {
		return model.Deck{}, err
	}

	if video != nil {
		s.keepVideo(ctx, deck.ID, video)
	}

	return deck, nil
}

// keepVideo stores the source video of a deck. Failures only degrade video
// playback, so they are logged and not returned.
func (s *Deck) keepVideo(ctx context.Context, id string, video io.Reader) {
	size := int64(-1)
	if f, ok := video.(*os.File); ok {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			s.logger.Warn("failed to rewind video", "deck_id", id, "error", err)
			return
		}
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
	}

	if err := s.blobs.Put(ctx, id, video, size); err != nil {
		s.logger.Warn("failed to store source video", "deck_id", id, "error", err)
		return
	}
	s.logger.Info("source video stored", "deck_id", id, "size", size)
}

// GetDeck loads a deck. Unreadable records are reported as not found.
func (s *Deck) GetDeck(ctx context.Context, id string) (model.Deck, error) {
	if strings.TrimSpace(id) == "" {
		return model.Deck{}, fmt.Errorf("%w: deck id is required", model.ErrInvalidInput)
	}

	deck, err := s.store.Load(ctx, id)
	if errors.Is(err, model.ErrCorruptRecord) {
		s.logger.Warn("corrupt deck record", "deck_id", id, "error", err)
		return model.Deck{}, fmt.Errorf("deck %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Deck{}, fmt.Errorf("failed to load deck: %w", err)
	}

	return deck, nil
}

func (s *Deck) ListDecks(ctx context.Context) ([]model.IndexEntry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}

	return entries, nil
}

// Video opens the stored source video of a deck. Any storage failure is
// reported as ErrVideoUnavailable.
func (s *Deck) Video(ctx context.Context, id string) (io.ReadCloser, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: deck id is required", model.ErrInvalidInput)
	}

	r, err := s.blobs.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("failed to open source video", "deck_id", id, "error", err)
		}
		return nil, fmt.Errorf("deck %s: %w", id, model.ErrVideoUnavailable)
	}

	return r, nil
}

// Export writes the deck as a presentation file using the named theme.
// Unknown or empty theme names use the default theme.
func (s *Deck) Export(ctx context.Context, id, themeName string, w io.Writer) (model.Deck, error) {
	deck, err := s.GetDeck(ctx, id)
	if err != nil {
		return model.Deck{}, err
	}

	if themeName == "" {
		themeName = s.defaultTheme
	}

	if err := s.exporter.Export(ctx, deck, model.ThemeByName(themeName), w); err != nil {
		return model.Deck{}, fmt.Errorf("failed to export deck: %w", err)
	}

	return deck, nil
}

// Script returns the presenter script of a deck.
func (s *Deck) Script(ctx context.Context, id string) (string, error) {
	deck, err := s.GetDeck(ctx, id)
	if err != nil {
		return "", err
	}

	return deck.Script(), nil
}

func spool(r io.Reader) (*os.File, error) {
	f, err := os.CreateTemp("", "pitchdeck-video-*")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, err
	}
	return f, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
