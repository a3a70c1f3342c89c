package mocks

import (
	context "context"
	io "io"

	model "github.com/dtroode/pitchdeck-server/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// DeckService is a mock type for the DeckService type
type DeckService struct {
	mock.Mock
}

// CreatePlaceholder provides a mock function with given fields: ctx, params, video
func (_m *DeckService) CreatePlaceholder(ctx context.Context, params model.PlaceholderParams, video io.Reader) (model.Deck, error) {
	ret := _m.Called(ctx, params, video)

	return ret.Get(0).(model.Deck), ret.Error(1)
}

// Export provides a mock function with given fields: ctx, id, theme, w
func (_m *DeckService) Export(ctx context.Context, id string, theme string, w io.Writer) (model.Deck, error) {
	ret := _m.Called(ctx, id, theme, w)

	var r0 model.Deck
	if rf, ok := ret.Get(0).(func(context.Context, string, string, io.Writer) model.Deck); ok {
		r0 = rf(ctx, id, theme, w)
	} else {
		r0 = ret.Get(0).(model.Deck)
	}

	return r0, ret.Error(1)
}

// Generate provides a mock function with given fields: ctx, params
func (_m *DeckService) Generate(ctx context.Context, params model.GenerateParams) (model.Deck, error) {
	ret := _m.Called(ctx, params)

	return ret.Get(0).(model.Deck), ret.Error(1)
}

// GetDeck provides a mock function with given fields: ctx, id
func (_m *DeckService) GetDeck(ctx context.Context, id string) (model.Deck, error) {
	ret := _m.Called(ctx, id)

	return ret.Get(0).(model.Deck), ret.Error(1)
}

// ListDecks provides a mock function with given fields: ctx
func (_m *DeckService) ListDecks(ctx context.Context) ([]model.IndexEntry, error) {
	ret := _m.Called(ctx)

	var r0 []model.IndexEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.IndexEntry)
	}

	return r0, ret.Error(1)
}

// Regenerate provides a mock function with given fields: ctx, id, params
func (_m *DeckService) Regenerate(ctx context.Context, id string, params model.RegenerateParams) (model.Deck, error) {
	ret := _m.Called(ctx, id, params)

	return ret.Get(0).(model.Deck), ret.Error(1)
}

// Script provides a mock function with given fields: ctx, id
func (_m *DeckService) Script(ctx context.Context, id string) (string, error) {
	ret := _m.Called(ctx, id)

	return ret.String(0), ret.Error(1)
}

// Video provides a mock function with given fields: ctx, id
func (_m *DeckService) Video(ctx context.Context, id string) (io.ReadCloser, error) {
	ret := _m.Called(ctx, id)

	var r0 io.ReadCloser
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(io.ReadCloser)
	}

	return r0, ret.Error(1)
}

// NewDeckService creates a new instance of DeckService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewDeckService(t interface {
	mock.TestingT
	Cleanup(func())
}) *DeckService {
	m := &DeckService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
