package mocks

import (
	context "context"
	io "io"

	model "github.com/dtroode/pitchdeck-server/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// Exporter is a mock type for the Exporter type
type Exporter struct {
	mock.Mock
}

// Export provides a mock function with given fields: ctx, deck, theme, w
func (_m *Exporter) Export(ctx context.Context, deck model.Deck, theme model.Theme, w io.Writer) error {
	ret := _m.Called(ctx, deck, theme, w)

	if rf, ok := ret.Get(0).(func(context.Context, model.Deck, model.Theme, io.Writer) error); ok {
		return rf(ctx, deck, theme, w)
	}
	return ret.Error(0)
}

// NewExporter creates a new instance of Exporter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewExporter(t interface {
	mock.TestingT
	Cleanup(func())
}) *Exporter {
	m := &Exporter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
