package profile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/repository"
	"github.com/google/uuid"
)

const MaxPhotoBytes = 10 << 20

var photoExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// UploadPhoto stores the image under profiles/<user_id>/ and records its URL
// on the profile. The content type is sniffed from the bytes.
func (uc *ProfileUseCase) UploadPhoto(ctx context.Context, userID uuid.UUID, size int64, r io.Reader) (string, error) {
	if size > MaxPhotoBytes {
		return "", invalid("photo must be at most %d MB", MaxPhotoBytes>>20)
	}

	br := bufio.NewReader(io.LimitReader(r, MaxPhotoBytes+1))
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if len(head) == 0 {
		return "", invalid("photo is empty")
	}
	ext, ok := photoExtensions[http.DetectContentType(head)]
	if !ok {
		return "", invalid("photo must be a JPEG, PNG or WebP image")
	}

	key := fmt.Sprintf("profiles/%s/%s.%s", userID, uuid.NewString(), ext)
	url, err := uc.blobs.Upload(ctx, key, &maxReader{r: br, left: MaxPhotoBytes})
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	if err := uc.profileRepo.Upsert(ctx, userID, repository.Fields{"profile_photo_url": url}); err != nil {
		return "", fmt.Errorf("failed to save photo url: %w", err)
	}
	uc.log.Info("profile photo uploaded", "user_id", userID, "key", key)
	return url, nil
}

// maxReader fails once more than left bytes were read.
type maxReader struct {
	r    io.Reader
	left int64
}

func (m *maxReader) Read(p []byte) (int, error) {
	n, err := m.r.Read(p)
	m.left -= int64(n)
	if m.left < 0 {
		return n, fmt.Errorf("%w: photo exceeds %d bytes", domain.ErrInvalidInput, MaxPhotoBytes)
	}
	return n, err
}
