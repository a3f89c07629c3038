package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PublicPrefix is the URL path uploads are served under.
const PublicPrefix = "/images/"

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds upload limit")
)

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

// Local keeps uploaded images on the local filesystem.
type Local struct {
	dir      string
	maxBytes int64
}

func NewLocal(dir string, maxBytes int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, maxBytes: maxBytes}, nil
}

func (s *Local) Dir() string {
	return s.dir
}

// SaveImage stores the upload as "<uuid>-<original name>" and returns its
// public URL.
func (s *Local) SaveImage(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", errors.New("missing file")
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect mime type: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	filename := uuid.NewString() + "-" + sanitize(fh.Filename)
	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	return PublicPrefix + filename, nil
}

// Remove deletes a previously saved image; unknown URLs are ignored.
func (s *Local) Remove(publicURL string) error {
	if !strings.HasPrefix(publicURL, PublicPrefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(publicURL, PublicPrefix))
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func sanitize(name string) string {
	base := filepath.Base(name)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "_" {
		return "image"
	}
	return base
}
