package mocks

import (
	context "context"

	model "github.com/dtroode/pitchdeck-server/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// DeckStore is a mock type for the DeckStore type
type DeckStore struct {
	mock.Mock
}

// List provides a mock function with given fields: ctx
func (_m *DeckStore) List(ctx context.Context) ([]model.IndexEntry, error) {
	ret := _m.Called(ctx)

	var r0 []model.IndexEntry
	if rf, ok := ret.Get(0).(func(context.Context) []model.IndexEntry); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.IndexEntry)
	}

	return r0, ret.Error(1)
}

// Load provides a mock function with given fields: ctx, id
func (_m *DeckStore) Load(ctx context.Context, id string) (model.Deck, error) {
	ret := _m.Called(ctx, id)

	var r0 model.Deck
	if rf, ok := ret.Get(0).(func(context.Context, string) model.Deck); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Get(0).(model.Deck)
	}

	return r0, ret.Error(1)
}

// Save provides a mock function with given fields: ctx, deck
func (_m *DeckStore) Save(ctx context.Context, deck model.Deck) error {
	ret := _m.Called(ctx, deck)

	return ret.Error(0)
}

// NewDeckStore creates a new instance of DeckStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewDeckStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *DeckStore {
	m := &DeckStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
