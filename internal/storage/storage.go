// Package storage keeps uploaded poster and banner images on local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	// ErrInvalidType is returned for anything that is not a JPEG or PNG image.
	ErrInvalidType = errors.New("invalid attachment type: only jpeg and png images are accepted")
	// ErrTooLarge is returned when the upload exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Object describes a stored file.
type Object struct {
	Key         string
	ContentType string
	Size        int64
}

// LocalStorage writes uploads under a single directory.
type LocalStorage struct {
	dir      string
	maxBytes int64
}

// NewLocalStorage creates the upload directory if needed.
func NewLocalStorage(dir string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, maxBytes: maxBytes}, nil
}

// MaxBytes returns the size limit of a single upload.
func (s *LocalStorage) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates the declared content type against the file's leading
// bytes, enforces the size limit and stores the content under a random key.
func (s *LocalStorage) Save(ctx context.Context, declaredType string, body io.Reader) (Object, error) {
	ext, ok := allowedTypes[declaredType]
	if !ok {
		return Object{}, ErrInvalidType
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return Object{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return Object{}, ErrTooLarge
	}
	if sniffed := http.DetectContentType(data); sniffed != declaredType {
		return Object{}, ErrInvalidType
	}

	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	key := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return Object{}, fmt.Errorf("failed to write %s: %w", key, err)
	}

	return Object{Key: key, ContentType: declaredType, Size: int64(len(data))}, nil
}

// ContentTypeOf returns the content type of a stored key from its extension.
func ContentTypeOf(key string) string {
	ext := filepath.Ext(key)
	for contentType, e := range allowedTypes {
		if e == ext {
			return contentType
		}
	}
	return "application/octet-stream"
}

// Open returns the stored content of key.
func (s *LocalStorage) Open(key string) (io.ReadCloser, error) {
	if key != filepath.Base(key) {
		return nil, fmt.Errorf("invalid key %q", key)
	}
	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a stored object. Missing objects are ignored.
func (s *LocalStorage) Delete(key string) error {
	if key != filepath.Base(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
