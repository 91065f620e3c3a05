//go:generate go run go.uber.org/mock/mockgen -source=image.go -destination=../mocks/mock_image_store.go -package=mocks
package storage

import (
	"context"
	"direct-chat/errors"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const PublicPrefix = "/images/"

// IImageStore turns an inline image payload into a durable reference.
type IImageStore interface {
	Save(ctx context.Context, payload string) (string, error)
	Delete(ctx context.Context, reference string) error
}

type DiskImageStore struct {
	dir      string
	maxBytes int
	log      *slog.Logger
}

func NewDiskImageStore(dir string, maxBytes int, log *slog.Logger) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create image directory %s: %w", dir, err)
	}
	return &DiskImageStore{dir: dir, maxBytes: maxBytes, log: log}, nil
}

// Save accepts a data URL (data:image/png;base64,...) or bare base64.
// The content type is sniffed from the bytes, the declared one is ignored.
func (s *DiskImageStore) Save(ctx context.Context, payload string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := decodePayload(payload)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image", errors.ErrInvalidImage)
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", errors.ErrInvalidImage, len(data), s.maxBytes)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: unsupported type %s", errors.ErrInvalidImage, mt.String())
	}

	name := uuid.NewString() + mt.Extension()
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrStorage, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("%w: %v", errors.ErrStorage, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrStorage, err)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrStorage, err)
	}

	s.log.Debug("Image stored", "name", name, "mime", mt.String(), "bytes", len(data))
	return PublicPrefix + name, nil
}

// Delete removes the file behind a reference returned by Save.
// A missing file is not an error.
func (s *DiskImageStore) Delete(ctx context.Context, reference string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, ok := strings.CutPrefix(reference, PublicPrefix)
	if !ok || name == "" || name != filepath.Base(name) {
		return fmt.Errorf("%w: unknown reference %q", errors.ErrInvalidImage, reference)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", errors.ErrStorage, err)
	}
	s.log.Debug("Image removed", "name", name)
	return nil
}

func (s *DiskImageStore) Dir() string {
	return s.dir
}

func decodePayload(payload string) ([]byte, error) {
	raw := strings.TrimSpace(payload)
	if strings.HasPrefix(raw, "data:") {
		_, encoded, ok := strings.Cut(raw, ",")
		if !ok || !strings.Contains(raw[:len(raw)-len(encoded)], ";base64") {
			return nil, fmt.Errorf("%w: malformed data url", errors.ErrInvalidImage)
		}
		raw = encoded
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidImage, err)
	}
	return data, nil
}
