package model

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DeckStore defines persistence operations for decks and the deck index.
type DeckStore interface {
	Save(ctx context.Context, deck Deck) error
	Load(ctx context.Context, id string) (Deck, error)
	List(ctx context.Context) ([]IndexEntry, error)
}

// Layout selects a rendering template for a slide.
type Layout string

const (
	LayoutTitle        Layout = "title"
	LayoutTitleBullets Layout = "titleBullets"
	LayoutQuote        Layout = "quote"
	LayoutImageLeft    Layout = "imageLeft"
	LayoutImageRight   Layout = "imageRight"
	LayoutStats        Layout = "stats"
	LayoutCover        Layout = "cover"
)

// Valid reports whether l is empty (default template) or one of the known layouts.
func (l Layout) Valid() bool {
	switch l {
	case "", LayoutTitle, LayoutTitleBullets, LayoutQuote, LayoutImageLeft, LayoutImageRight, LayoutStats, LayoutCover:
		return true
	}
	return false
}

// Slide is a single unit of a deck.
type Slide struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Bullets          []string `json:"bullets"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	SpeakerNotes     string   `json:"speakerNotes,omitempty"`
	SuggestedTimeSec *int     `json:"suggestedTimeSec,omitempty"`
	Layout           Layout   `json:"layout,omitempty"`
}

// Deck is a generated presentation: metadata plus ordered slides.
type Deck struct {
	ID            string  `json:"id"`
	CreatedAt     int64   `json:"createdAt"`
	Objective     string  `json:"objective"`
	Tone          string  `json:"tone"`
	Summary       string  `json:"summary,omitempty"`
	Slides        []Slide `json:"slides"`
	VideoURL      string  `json:"videoUrl,omitempty"`
	TranscriptURL string  `json:"transcriptUrl,omitempty"`
}

// IndexEntry is a lightweight reference to a stored deck.
type IndexEntry struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
}

// Entry returns the index entry referencing d.
func (d Deck) Entry() IndexEntry {
	return IndexEntry{ID: d.ID, CreatedAt: d.CreatedAt}
}

// Created returns the creation time of the deck.
func (d Deck) Created() time.Time {
	return time.UnixMilli(d.CreatedAt)
}

// Validate checks deck invariants before it is persisted.
func (d Deck) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDeck)
	}
	for i, s := range d.Slides {
		if s.SuggestedTimeSec != nil && *s.SuggestedTimeSec < 0 {
			return fmt.Errorf("%w: slide %d has negative suggested time", ErrInvalidDeck, i+1)
		}
		if !s.Layout.Valid() {
			return fmt.Errorf("%w: slide %d has unknown layout %q", ErrInvalidDeck, i+1, s.Layout)
		}
	}
	return nil
}

// TotalDuration sums the suggested time of all slides.
func (d Deck) TotalDuration() time.Duration {
	var total int
	for _, s := range d.Slides {
		if s.SuggestedTimeSec != nil {
			total += *s.SuggestedTimeSec
		}
	}
	return time.Duration(total) * time.Second
}

// Script renders the presenter script for the whole deck.
func (d Deck) Script() string {
	blocks := make([]string, 0, len(d.Slides))
	for i, s := range d.Slides {
		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s\n%s", i+1, s.Title, s.SpeakerNotes)
		if s.SuggestedTimeSec != nil && *s.SuggestedTimeSec > 0 {
			fmt.Fprintf(&b, "\n(≈ %ds)", *s.SuggestedTimeSec)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// Seconds returns a pointer to n, for optional suggested times.
func Seconds(n int) *int {
	return &n
}

// Preset vocabularies offered by the dashboard. Free text is accepted too.
var (
	Objectives = []string{"Investors", "Hackathon", "Sales"}
	Tones      = []string{"Executive", "Technical", "Inspirational"}
)

// SlideCountForPreset maps the dashboard slide-count presets to a number of slides.
func SlideCountForPreset(preset string) int {
	switch preset {
	case "6-8":
		return 7
	case "10":
		return 10
	default:
		return 13
	}
}
