package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/pitchdeck-server/internal/mocks"
	"github.com/dtroode/pitchdeck-server/internal/model"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestBuilder(store DeckSaver) *Builder {
	b := New(store)
	b.now = func() time.Time { return fixedNow }
	b.newID = func() string { return "deck_test" }
	return b
}

func TestBuilder_Placeholder(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{name: "no slides", count: 0},
		{name: "fewer than rotation", count: 7},
		{name: "wraps rotation", count: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewDeckStore(t)
			store.On("Save", mock.Anything, mock.MatchedBy(func(d model.Deck) bool {
				return d.ID == "deck_test" && len(d.Slides) == tt.count
			})).Return(nil).Once()

			deck, err := newTestBuilder(store).Placeholder(context.Background(), model.PlaceholderParams{
				Objective:  "Hackathon",
				Tone:       "Inspirational",
				SlideCount: tt.count,
				VideoURL:   "blob:local",
			})
			require.NoError(t, err)

			assert.Equal(t, "deck_test", deck.ID)
			assert.Equal(t, fixedNow.UnixMilli(), deck.CreatedAt)
			assert.Equal(t, "Hackathon", deck.Objective)
			assert.Equal(t, "Inspirational", deck.Tone)
			assert.Equal(t, "blob:local", deck.VideoURL)
			require.Len(t, deck.Slides, tt.count)

			for i, s := range deck.Slides {
				title := PlaceholderTitles[i%len(PlaceholderTitles)]
				assert.Equal(t, fmt.Sprint(i+1), s.ID)
				assert.Equal(t, title, s.Title)
				require.Len(t, s.Bullets, 3)
				for _, b := range s.Bullets {
					assert.Contains(t, b, fmt.Sprintf("%d.", i+1))
					assert.Contains(t, b, title)
				}
				require.NotNil(t, s.SuggestedTimeSec)
				assert.Equal(t, 30, *s.SuggestedTimeSec)
				assert.NotEmpty(t, s.ImageURL)
				assert.Contains(t, s.SpeakerNotes, title)
			}
		})
	}
}

func TestBuilder_Placeholder_CyclesTitles(t *testing.T) {
	store := mocks.NewDeckStore(t)
	store.On("Save", mock.Anything, mock.Anything).Return(nil)

	deck, err := newTestBuilder(store).Placeholder(context.Background(), model.PlaceholderParams{SlideCount: 11})
	require.NoError(t, err)

	assert.Equal(t, "Problem", deck.Slides[0].Title)
	assert.Equal(t, "Ask", deck.Slides[9].Title)
	assert.Equal(t, "Problem", deck.Slides[10].Title)
}

func TestBuilder_Placeholder_SaveError(t *testing.T) {
	store := mocks.NewDeckStore(t)
	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := newTestBuilder(store).Placeholder(context.Background(), model.PlaceholderParams{SlideCount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save placeholder deck")
}

func TestBuilder_Placeholder_NegativeCount(t *testing.T) {
	store := mocks.NewDeckStore(t)

	_, err := newTestBuilder(store).Placeholder(context.Background(), model.PlaceholderParams{SlideCount: -1})
	assert.ErrorIs(t, err, model.ErrInvalidDeck)
}

func TestNewDeckID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewDeckID()
		assert.True(t, strings.HasPrefix(id, "deck_"))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func outlines(n int) []model.SlideOutline {
	out := make([]model.SlideOutline, n)
	for i := range out {
		out[i] = model.SlideOutline{Title: fmt.Sprintf("Slide %d", i+1), Bullets: []string{fmt.Sprintf("b%d", i+1)}}
	}
	return out
}

func TestBuilder_FromProcessingResult(t *testing.T) {
	b := newTestBuilder(mocks.NewDeckStore(t))

	res := model.ProcessResult{
		Summary:       "synopsis",
		Slides:        outlines(3),
		Script:        []model.ScriptEntry{{Slide: 2, WhatToSay: "X"}},
		FrameURLs:     []string{"f0", "f1"},
		VideoURL:      "https://cdn.example/in.mp4",
		TranscriptURL: "https://cdn.example/in.srt",
	}

	deck, err := b.FromProcessingResult("deck_1", "Sales", "Technical", res)
	require.NoError(t, err)

	assert.Equal(t, "deck_1", deck.ID)
	assert.Equal(t, fixedNow.UnixMilli(), deck.CreatedAt)
	assert.Equal(t, "Sales", deck.Objective)
	assert.Equal(t, "Technical", deck.Tone)
	assert.Equal(t, "synopsis", deck.Summary)
	assert.Equal(t, "https://cdn.example/in.mp4", deck.VideoURL)
	assert.Equal(t, "https://cdn.example/in.srt", deck.TranscriptURL)
	require.Len(t, deck.Slides, 3)

	assert.Equal(t, "Slide 1", deck.Slides[0].Title)
	assert.Equal(t, []string{"b1"}, deck.Slides[0].Bullets)

	// frames: own index, then fallback to frame 0
	assert.Equal(t, "f0", deck.Slides[0].ImageURL)
	assert.Equal(t, "f1", deck.Slides[1].ImageURL)
	assert.Equal(t, "f0", deck.Slides[2].ImageURL)

	// script entries are keyed by 1-based slide position
	assert.Empty(t, deck.Slides[0].SpeakerNotes)
	assert.Equal(t, "X", deck.Slides[1].SpeakerNotes)
	assert.Empty(t, deck.Slides[2].SpeakerNotes)

	for _, s := range deck.Slides {
		require.NotNil(t, s.SuggestedTimeSec)
		assert.Equal(t, 30, *s.SuggestedTimeSec)
	}
}

func TestBuilder_FromProcessingResult_LayoutRotation(t *testing.T) {
	b := newTestBuilder(mocks.NewDeckStore(t))

	deck, err := b.FromProcessingResult("deck_1", "", "", model.ProcessResult{Slides: outlines(9)})
	require.NoError(t, err)

	want := []model.Layout{
		model.LayoutCover, model.LayoutTitleBullets, model.LayoutImageRight, model.LayoutTitleBullets,
		model.LayoutQuote, model.LayoutImageLeft, model.LayoutStats,
		model.LayoutCover, model.LayoutTitleBullets,
	}
	got := make([]model.Layout, 0, len(deck.Slides))
	for _, s := range deck.Slides {
		got = append(got, s.Layout)
	}
	assert.Equal(t, want, got)
}

func TestBuilder_FromProcessingResult_EdgeCases(t *testing.T) {
	b := newTestBuilder(mocks.NewDeckStore(t))

	t.Run("empty slides", func(t *testing.T) {
		deck, err := b.FromProcessingResult("deck_1", "", "", model.ProcessResult{Slides: []model.SlideOutline{}})
		require.NoError(t, err)
		assert.NotNil(t, deck.Slides)
		assert.Empty(t, deck.Slides)
	})

	t.Run("missing slides", func(t *testing.T) {
		_, err := b.FromProcessingResult("deck_1", "", "", model.ProcessResult{})
		assert.ErrorIs(t, err, ErrMalformedResult)
	})

	t.Run("no frames and nil bullets", func(t *testing.T) {
		deck, err := b.FromProcessingResult("deck_1", "", "", model.ProcessResult{
			Slides: []model.SlideOutline{{Title: "Only"}},
		})
		require.NoError(t, err)
		assert.Empty(t, deck.Slides[0].ImageURL)
		assert.NotNil(t, deck.Slides[0].Bullets)
		assert.Empty(t, deck.Slides[0].Bullets)
	})

	t.Run("duplicate script entries keep the first", func(t *testing.T) {
		deck, err := b.FromProcessingResult("deck_1", "", "", model.ProcessResult{
			Slides: outlines(1),
			Script: []model.ScriptEntry{{Slide: 1, WhatToSay: "first"}, {Slide: 1, WhatToSay: "second"}, {Slide: 5, WhatToSay: "orphan"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "first", deck.Slides[0].SpeakerNotes)
	})

	t.Run("slide order follows input", func(t *testing.T) {
		deck, err := b.FromProcessingResult("deck_1", "", "", model.ProcessResult{Slides: outlines(20)})
		require.NoError(t, err)
		for i, s := range deck.Slides {
			assert.Equal(t, fmt.Sprintf("Slide %d", i+1), s.Title)
		}
	})
}
