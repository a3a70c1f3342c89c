package model

import (
	"context"
	"io"
)

// BlobStore keeps one large binary object per key.
type BlobStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// KVStore is a durable key-value store with transactional updates.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Update(ctx context.Context, fn func(tx KVTx) error) error
}

// KVTx is a read-write view of a KVStore inside Update.
type KVTx interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
