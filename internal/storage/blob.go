package storage

import (
	"context"
	"io"
)

// BlobStore keeps generated artifacts (certificate documents).
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error) // returns canonical key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
