// Package storage holds uploaded media objects.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled is returned by uploads when no object store is configured.
var ErrDisabled = errors.New("object storage is not configured")

// ObjectStore stores media files by key.
type ObjectStore interface {
	// Put uploads an object and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Remove deletes an object. Removing a missing object is not an error.
	Remove(ctx context.Context, key string) error
}

// Noop is the ObjectStore used when storage is disabled.
type Noop struct{}

func (Noop) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	return "", ErrDisabled
}

func (Noop) Remove(ctx context.Context, key string) error {
	return nil
}
