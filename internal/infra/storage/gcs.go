package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tourtube/internal/config"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage Google Cloud Storage，默认地址为 https://storage.googleapis.com/<bucket>/key
type GCSStorage struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewGCSStorage(ctx context.Context, cfg *config.GCSConfig) (*GCSStorage, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("gcs storage: bucket is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + cfg.Bucket
	}

	return &GCSStorage{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) Upload(ctx context.Context, folder, filename string, r io.Reader, _ int64, contentType string) (string, error) {
	key := ObjectKey(folder, filename)

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload %s: %w", key, err)
	}
	return joinURL(s.baseURL, key), nil
}

func (s *GCSStorage) Delete(ctx context.Context, fileURL string) error {
	key, err := KeyFromURL(fileURL, s.baseURL)
	if err != nil {
		return err
	}
	err = s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
