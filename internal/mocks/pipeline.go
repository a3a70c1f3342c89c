package mocks

import (
	context "context"
	io "io"

	model "github.com/dtroode/pitchdeck-server/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// Pipeline is a mock type for the Pipeline type
type Pipeline struct {
	mock.Mock
}

// ProcessFromUpload provides a mock function with given fields: ctx, req
func (_m *Pipeline) ProcessFromUpload(ctx context.Context, req model.ProcessRequest) (model.ProcessResult, error) {
	ret := _m.Called(ctx, req)

	var r0 model.ProcessResult
	if rf, ok := ret.Get(0).(func(context.Context, model.ProcessRequest) model.ProcessResult); ok {
		r0 = rf(ctx, req)
	} else {
		r0 = ret.Get(0).(model.ProcessResult)
	}

	return r0, ret.Error(1)
}

// UploadVideo provides a mock function with given fields: ctx, filename, reader
func (_m *Pipeline) UploadVideo(ctx context.Context, filename string, reader io.Reader) (model.UploadResult, error) {
	ret := _m.Called(ctx, filename, reader)

	var r0 model.UploadResult
	if rf, ok := ret.Get(0).(func(context.Context, string, io.Reader) model.UploadResult); ok {
		r0 = rf(ctx, filename, reader)
	} else {
		r0 = ret.Get(0).(model.UploadResult)
	}

	return r0, ret.Error(1)
}

// NewPipeline creates a new instance of Pipeline. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPipeline(t interface {
	mock.TestingT
	Cleanup(func())
}) *Pipeline {
	m := &Pipeline{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
