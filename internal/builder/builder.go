// Package builder turns processing results, or nothing at all, into decks.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/pitchdeck-server/internal/model"
)

// DefaultSlideTime is the suggested presentation time of every built slide, in seconds.
const DefaultSlideTime = 30

var ErrMalformedResult = errors.New("processing result has no slides field")

// LayoutRotation is cycled through to give generated slides visual variety.
var LayoutRotation = []model.Layout{
	model.LayoutCover,
	model.LayoutTitleBullets,
	model.LayoutImageRight,
	model.LayoutTitleBullets,
	model.LayoutQuote,
	model.LayoutImageLeft,
	model.LayoutStats,
}

// PlaceholderTitles are cycled through by placeholder decks.
var PlaceholderTitles = []string{
	"Problem", "Solution", "Demo", "Market", "Model",
	"Traction", "Competition", "Roadmap", "Team", "Ask",
}

// DeckSaver persists decks.
type DeckSaver interface {
	Save(ctx context.Context, deck model.Deck) error
}

type Builder struct {
	store DeckSaver
	now   func() time.Time
	newID func() string
}

func New(store DeckSaver) *Builder {
	return &Builder{
		store: store,
		now:   time.Now,
		newID: NewDeckID,
	}
}

// NewDeckID returns a unique, time-ordered deck id.
func NewDeckID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "deck_" + uuid.NewString()
	}
	return "deck_" + id.String()
}

// Placeholder builds a demo deck with generated content and saves it.
func (b *Builder) Placeholder(ctx context.Context, params model.PlaceholderParams) (model.Deck, error) {
	if params.SlideCount < 0 {
		return model.Deck{}, fmt.Errorf("%w: negative slide count %d", model.ErrInvalidDeck, params.SlideCount)
	}

	slides := make([]model.Slide, 0, params.SlideCount)
	for i := 0; i < params.SlideCount; i++ {
		title := PlaceholderTitles[i%len(PlaceholderTitles)]
		n := i + 1
		slides = append(slides, model.Slide{
			ID:    strconv.Itoa(n),
			Title: title,
			Bullets: []string{
				fmt.Sprintf("Key point %d.1 in %s", n, title),
				fmt.Sprintf("Key point %d.2 in %s", n, title),
				fmt.Sprintf("Key point %d.3 in %s", n, title),
			},
			ImageURL:         fmt.Sprintf("https://picsum.photos/seed/%d/800/450", i+10),
			SpeakerNotes:     fmt.Sprintf("Speaker notes for %s. Keep a clear pace and emphasize the value.", title),
			SuggestedTimeSec: model.Seconds(DefaultSlideTime),
		})
	}

	deck := model.Deck{
		ID:        b.newID(),
		CreatedAt: b.now().UnixMilli(),
		Objective: params.Objective,
		Tone:      params.Tone,
		Slides:    slides,
		VideoURL:  params.VideoURL,
	}

	if err := b.store.Save(ctx, deck); err != nil {
		return model.Deck{}, fmt.Errorf("failed to save placeholder deck: %w", err)
	}

	return deck, nil
}

// FromProcessingResult maps a backend result onto a deck with the given id.
// The deck is not saved; callers decide whether to overwrite an existing record.
func (b *Builder) FromProcessingResult(id, objective, tone string, res model.ProcessResult) (model.Deck, error) {
	if res.Slides == nil {
		return model.Deck{}, ErrMalformedResult
	}

	notes := make(map[int]string, len(res.Script))
	for _, entry := range res.Script {
		// first entry for a slide wins
		if _, ok := notes[entry.Slide]; !ok {
			notes[entry.Slide] = entry.WhatToSay
		}
	}

	slides := make([]model.Slide, 0, len(res.Slides))
	for i, outline := range res.Slides {
		bullets := outline.Bullets
		if bullets == nil {
			bullets = []string{}
		}
		slides = append(slides, model.Slide{
			ID:               strconv.Itoa(i + 1),
			Title:            outline.Title,
			Bullets:          bullets,
			ImageURL:         frameFor(res.FrameURLs, i),
			SpeakerNotes:     notes[i+1],
			SuggestedTimeSec: model.Seconds(DefaultSlideTime),
			Layout:           LayoutRotation[i%len(LayoutRotation)],
		})
	}

	return model.Deck{
		ID:            id,
		CreatedAt:     b.now().UnixMilli(),
		Objective:     objective,
		Tone:          tone,
		Summary:       res.Summary,
		Slides:        slides,
		VideoURL:      res.VideoURL,
		TranscriptURL: res.TranscriptURL,
	}, nil
}

// frameFor picks the frame at position i, falling back to the first frame.
func frameFor(frames []string, i int) string {
	if i < len(frames) && frames[i] != "" {
		return frames[i]
	}
	if len(frames) > 0 {
		return frames[0]
	}
	return ""
}
