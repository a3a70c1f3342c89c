// Package mocks provides testify mocks of the storage, pipeline and service interfaces.
package mocks

import (
	context "context"
	io "io"

	mock "github.com/stretchr/testify/mock"
)

// BlobStore is a mock type for the BlobStore type
type BlobStore struct {
	mock.Mock
}

// Exists provides a mock function with given fields: ctx, key
func (_m *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	ret := _m.Called(ctx, key)

	return ret.Bool(0), ret.Error(1)
}

// Get provides a mock function with given fields: ctx, key
func (_m *BlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	ret := _m.Called(ctx, key)

	var r0 io.ReadCloser
	if rf, ok := ret.Get(0).(func(context.Context, string) io.ReadCloser); ok {
		r0 = rf(ctx, key)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(io.ReadCloser)
	}

	return r0, ret.Error(1)
}

// Put provides a mock function with given fields: ctx, key, reader, size
func (_m *BlobStore) Put(ctx context.Context, key string, reader io.Reader, size int64) error {
	ret := _m.Called(ctx, key, reader, size)

	if rf, ok := ret.Get(0).(func(context.Context, string, io.Reader, int64) error); ok {
		return rf(ctx, key, reader, size)
	}
	return ret.Error(0)
}

// NewBlobStore creates a new instance of BlobStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewBlobStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *BlobStore {
	m := &BlobStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
