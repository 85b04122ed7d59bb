// Package storage provides blob storage for recipe images.
// Two drivers are available: a local filesystem store and AWS S3.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// Driver is the interface implemented by image storage backends.
type Driver interface {
	// Save stores the object under key, replacing any existing content.
	Save(ctx context.Context, key, contentType string, r io.Reader) error

	// Open returns a reader for the object stored under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored under key.
	// Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
