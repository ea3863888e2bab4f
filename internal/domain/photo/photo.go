package photo

import (
	"context"
	"errors"
)

var (
	ErrUnsupportedFormat = errors.New("photo must be a jpg, jpeg or png image")
	ErrTooLarge          = errors.New("photo exceeds the maximum upload size")
	ErrEmpty             = errors.New("photo is empty")
	ErrUndecodable       = errors.New("photo could not be decoded")
)

// Uploader stores an image and returns a URL that can be kept on a record.
type Uploader interface {
	Upload(ctx context.Context, ownerID string, data []byte, filename string) (string, error)
}
