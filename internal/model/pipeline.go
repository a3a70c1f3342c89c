package model

import (
	"context"
	"io"
)

// Pipeline is the external processing backend.
type Pipeline interface {
	UploadVideo(ctx context.Context, filename string, reader io.Reader) (UploadResult, error)
	ProcessFromUpload(ctx context.Context, req ProcessRequest) (ProcessResult, error)
}

// UploadResult describes a video accepted by the backend.
type UploadResult struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	GetURL      string `json:"getUrl"`
}

// ProcessRequest asks the backend to build a deck from an uploaded video.
type ProcessRequest struct {
	UploadID     string `json:"uploadId"`
	Language     string `json:"language"`
	Objective    string `json:"objective"`
	Tone         string `json:"tone"`
	SlidesNumber int    `json:"slidesNumber"`
}

// SlideOutline is a slide as produced by the backend.
type SlideOutline struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}

// ScriptEntry is the spoken script for a 1-based slide position.
type ScriptEntry struct {
	Slide     int    `json:"slide"`
	WhatToSay string `json:"what_to_say"`
}

// Highlight is a labelled excerpt of the source video.
type Highlight struct {
	Label   string `json:"label"`
	Summary string `json:"summary"`
}

// ProcessResult is a validated processing response.
// Slides is nil only when the backend omitted the field.
type ProcessResult struct {
	Summary       string
	Highlights    []Highlight
	Slides        []SlideOutline
	Script        []ScriptEntry
	FrameURLs     []string
	VideoURL      string
	AudioURL      string
	TranscriptURL string
}
