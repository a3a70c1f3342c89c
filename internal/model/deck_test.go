package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeck_Validate(t *testing.T) {
	tests := []struct {
		name    string
		deck    Deck
		wantErr bool
	}{
		{
			name: "valid deck",
			deck: Deck{ID: "deck_1", Slides: []Slide{{ID: "1", Title: "A", Layout: LayoutCover, SuggestedTimeSec: Seconds(0)}}},
		},
		{
			name:    "empty id",
			deck:    Deck{ID: "  "},
			wantErr: true,
		},
		{
			name:    "negative suggested time",
			deck:    Deck{ID: "deck_1", Slides: []Slide{{ID: "1", SuggestedTimeSec: Seconds(-1)}}},
			wantErr: true,
		},
		{
			name:    "unknown layout",
			deck:    Deck{ID: "deck_1", Slides: []Slide{{ID: "1", Layout: "grid"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.deck.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidDeck))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDeck_TotalDuration(t *testing.T) {
	d := Deck{Slides: []Slide{
		{SuggestedTimeSec: Seconds(30)},
		{},
		{SuggestedTimeSec: Seconds(45)},
	}}
	assert.Equal(t, 75*time.Second, d.TotalDuration())
}

func TestDeck_Script(t *testing.T) {
	d := Deck{Slides: []Slide{
		{Title: "Problem", SpeakerNotes: "Talk about pain.", SuggestedTimeSec: Seconds(30)},
		{Title: "Ask"},
	}}
	assert.Equal(t, "1. Problem\nTalk about pain.\n(≈ 30s)\n\n2. Ask\n", d.Script())
	assert.Equal(t, "", Deck{}.Script())
}

func TestSlideCountForPreset(t *testing.T) {
	assert.Equal(t, 7, SlideCountForPreset("6-8"))
	assert.Equal(t, 10, SlideCountForPreset("10"))
	assert.Equal(t, 13, SlideCountForPreset("12-15"))
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, "dark", ThemeByName("dark").Name)
	assert.Equal(t, DefaultTheme, ThemeByName("neon").Name)
	assert.Len(t, Themes(), 4)
}
