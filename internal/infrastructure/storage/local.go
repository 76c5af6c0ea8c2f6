package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// LocalStore writes under root on fs. The server exposes root as static files.
type LocalStore struct {
	fs        afero.Fs
	root      string
	publicURL string
}

func NewLocalStore(fs afero.Fs, root, publicBaseURL string) *LocalStore {
	return &LocalStore{fs: fs, root: root, publicURL: publicBaseURL}
}

func (s *LocalStore) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Clean("/" + key)
	path := filepath.Join(s.root, clean)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	f, err := s.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return s.PublicURL(clean), nil
}

func (s *LocalStore) PublicURL(key string) string {
	return joinURL(s.publicURL, key)
}

func (s *LocalStore) Root() string { return s.root }
