package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gdugdh24/fabdive-backend/internal/config"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/spf13/afero"
)

// BlobStore stores uploaded files and returns the URL clients load them from.
type BlobStore interface {
	Upload(ctx context.Context, key string, r io.Reader) (string, error)
	PublicURL(key string) string
}

// New builds the store selected by cfg.Type.
func New(ctx context.Context, cfg *config.StorageConfig, log *logger.Logger) (BlobStore, error) {
	switch cfg.Type {
	case "gcs":
		return NewGCSStore(ctx, cfg.Bucket, cfg.PublicBaseURL, log)
	case "local", "":
		return NewLocalStore(afero.NewOsFs(), cfg.Path, cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	default:
		return ""
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
