package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"google.golang.org/api/option"
)

type GCSStore struct {
	log       *logger.Logger
	client    *storage.Client
	bucket    string
	publicURL string
}

// NewGCSStore uses application default credentials.
func NewGCSStore(ctx context.Context, bucket, publicBaseURL string, log *logger.Logger) (*GCSStore, error) {
	client, err := storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = "https://storage.googleapis.com/" + bucket
	}
	return &GCSStore{
		log:       log.With("service", "GCSStore"),
		client:    client,
		bucket:    bucket,
		publicURL: publicBaseURL,
	}, nil
}

func (s *GCSStore) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if ct := ContentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	s.log.Debug("object uploaded", "bucket", s.bucket, "key", key)
	return s.PublicURL(key), nil
}

func (s *GCSStore) PublicURL(key string) string {
	return joinURL(s.publicURL, key)
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
