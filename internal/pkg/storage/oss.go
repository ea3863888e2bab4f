package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type OSSConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	// PublicBaseURL overrides the default https://<bucket>.<endpoint> URL, e.g. for a CDN domain.
	PublicBaseURL string
}

// OSSStorage stores objects in an Aliyun OSS bucket with public-read URLs.
type OSSStorage struct {
	bucket  *oss.Bucket
	baseURL string
}

func NewOSSStorage(cfg OSSConfig) (*OSSStorage, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("oss storage requires endpoint, access key id, access key secret and bucket")
	}

	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = publicBucketURL(cfg.Endpoint, cfg.Bucket)
	}

	return &OSSStorage{bucket: bucket, baseURL: baseURL}, nil
}

func publicBucketURL(endpoint, bucket string) string {
	host := endpoint
	scheme := "https"
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		host = u.Host
		scheme = u.Scheme
	}
	return fmt.Sprintf("%s://%s.%s", scheme, bucket, host)
}

func (s *OSSStorage) Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.bucket.PutObject(key, file, opts...); err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return s.baseURL + "/" + key, nil
}
