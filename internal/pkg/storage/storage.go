package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidKey = errors.New("invalid object key")

type FileStorage interface {
	// Upload stores the content under key and returns the public URL of the object.
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)
}
