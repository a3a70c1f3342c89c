package main

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/dtroode/pitchdeck-server/internal/app"
	"github.com/dtroode/pitchdeck-server/internal/config"
	"github.com/dtroode/pitchdeck-server/internal/logger"
	"github.com/dtroode/pitchdeck-server/internal/model"
)

type deckService interface {
	Generate(ctx context.Context, params model.GenerateParams) (model.Deck, error)
	Regenerate(ctx context.Context, id string, params model.RegenerateParams) (model.Deck, error)
	CreatePlaceholder(ctx context.Context, params model.PlaceholderParams, video io.Reader) (model.Deck, error)
	GetDeck(ctx context.Context, id string) (model.Deck, error)
	ListDecks(ctx context.Context) ([]model.IndexEntry, error)
	Video(ctx context.Context, id string) (io.ReadCloser, error)
	Export(ctx context.Context, id, theme string, w io.Writer) (model.Deck, error)
	Script(ctx context.Context, id string) (string, error)
}

// commandContext builds the deck service on first use, so commands that do
// not touch storage run without a database.
type commandContext struct {
	once sync.Once
	app  *app.App
	svc  deckService
	err  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func newCommandContextWithService(svc deckService) *commandContext {
	c := &commandContext{svc: svc}
	c.once.Do(func() {})
	return c
}

func (c *commandContext) decks(ctx context.Context) (deckService, error) {
	c.once.Do(func() {
		cfg, err := config.NewConfig()
		if err != nil {
			c.err = err
			return
		}
		a, err := app.New(ctx, cfg, logger.NewWithWriter(os.Stderr, cfg.LogLevel))
		if err != nil {
			c.err = err
			return
		}
		c.app = a
		c.svc = a.Decks
	})
	return c.svc, c.err
}

func (c *commandContext) close() {
	if c.app != nil {
		_ = c.app.Close()
	}
}
