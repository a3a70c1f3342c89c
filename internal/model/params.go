package model

import "io"

// GenerateParams describes a recorded or uploaded video to turn into a deck.
type GenerateParams struct {
	Filename     string
	Video        io.Reader
	Language     string
	Objective    string
	Tone         string
	SlidesNumber int
	// KeepVideo stores the source video under the deck id.
	KeepVideo bool
}

// RegenerateParams overrides the generation settings of an existing deck.
// Empty fields keep the deck's current values.
type RegenerateParams struct {
	Language     string `json:"language"`
	Objective    string `json:"objective"`
	Tone         string `json:"tone"`
	SlidesNumber int    `json:"slidesNumber"`
}

// PlaceholderParams configures an offline demo deck.
type PlaceholderParams struct {
	Objective  string `json:"objective"`
	Tone       string `json:"tone"`
	SlideCount int    `json:"slideCount"`
	VideoURL   string `json:"videoUrl"`
}
