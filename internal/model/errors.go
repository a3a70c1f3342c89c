package model

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrCorruptRecord    = errors.New("corrupt record")
	ErrInvalidDeck      = errors.New("invalid deck")
	ErrVideoUnavailable = errors.New("source video unavailable")
	ErrInvalidInput     = errors.New("invalid input")
	ErrPipelineFailed   = errors.New("processing backend failed")
)
