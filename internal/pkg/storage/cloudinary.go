package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	// UploadPreset is required for unsigned uploads, optional otherwise.
	UploadPreset string
	// UploadPrefix overrides https://api.cloudinary.com.
	UploadPrefix string
}

// CloudinaryStorage uploads images with API credentials when they are set and
// through an unsigned upload preset when they are not.
type CloudinaryStorage struct {
	cld          *cloudinary.Cloudinary
	uploadPreset string
	signed       bool
}

func NewCloudinaryStorage(cfg CloudinaryConfig) (*CloudinaryStorage, error) {
	signed := cfg.APIKey != "" && cfg.APISecret != ""
	if cfg.CloudName == "" || (!signed && cfg.UploadPreset == "") {
		return nil, fmt.Errorf("cloudinary storage requires cloud name and either api credentials or an upload preset")
	}

	conf, err := config.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to build cloudinary config: %w", err)
	}
	if cfg.UploadPrefix != "" {
		conf.API.UploadPrefix = strings.TrimRight(cfg.UploadPrefix, "/")
	}

	cld, err := cloudinary.NewFromConfiguration(*conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &CloudinaryStorage{cld: cld, uploadPreset: cfg.UploadPreset, signed: signed}, nil
}

func (s *CloudinaryStorage) Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error) {
	params := uploader.UploadParams{
		PublicID:     strings.TrimSuffix(key, path.Ext(key)),
		ResourceType: "image",
		Overwrite:    api.Bool(true),
	}

	var (
		res *uploader.UploadResult
		err error
	)
	if s.signed {
		params.UploadPreset = s.uploadPreset
		res, err = s.cld.Upload.Upload(ctx, file, params)
	} else {
		res, err = s.cld.Upload.UnsignedUpload(ctx, file, s.uploadPreset, params)
	}
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload rejected: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary response has no secure_url")
	}

	return res.SecureURL, nil
}
