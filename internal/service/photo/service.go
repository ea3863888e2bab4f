package photo

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/photo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	MaxUploadSize = 10 << 20
	maxWidth      = 1280
	jpegQuality   = 80
)

var allowedExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

type PhotoServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewPhotoService(storage storage.FileStorage) photo.Uploader {
	return &PhotoServiceImpl{storage: storage, now: time.Now}
}

// Upload validates the selfie, re-encodes it as a JPEG no wider than
// maxWidth and stores it under attendance/<date>/<owner>-<uuid>.jpg.
func (s *PhotoServiceImpl) Upload(ctx context.Context, ownerID string, data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExts[ext]; !ok {
		return "", photo.ErrUnsupportedFormat
	}
	if len(data) == 0 {
		return "", photo.ErrEmpty
	}
	if len(data) > MaxUploadSize {
		return "", photo.ErrTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", photo.ErrUndecodable, err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("failed to encode photo: %w", err)
	}

	key := path.Join(
		"attendance",
		s.now().UTC().Format("2006-01-02"),
		fmt.Sprintf("%s-%s.jpg", ownerID, uuid.NewString()),
	)

	url, err := s.storage.Upload(ctx, &buf, key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}

	return url, nil
}
