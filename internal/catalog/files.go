package catalog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"movie-catalog-backend/internal/model"
	"movie-catalog-backend/internal/storage"
	"movie-catalog-backend/internal/store"
)

// BlobStorage keeps the bytes of uploaded files.
type BlobStorage interface {
	Save(ctx context.Context, declaredType string, body io.Reader) (storage.Object, error)
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
}

// FileService stores poster and banner images.
type FileService struct {
	files   store.FileStore
	storage BlobStorage
	log     zerolog.Logger
}

// NewFileService creates the upload service.
func NewFileService(files store.FileStore, blobs BlobStorage, log zerolog.Logger) *FileService {
	return &FileService{
		files:   files,
		storage: blobs,
		log:     log.With().Str("component", "uploads").Logger(),
	}
}

// Upload saves the image and records it. The blob is removed again when
// the record cannot be written.
func (s *FileService) Upload(ctx context.Context, fileName, contentType string, body io.Reader) (*model.File, error) {
	obj, err := s.storage.Save(ctx, contentType, body)
	switch {
	case errors.Is(err, storage.ErrInvalidType):
		return nil, newError(ErrInvalid, "invalid file type %q, only jpeg and png images are accepted", contentType)
	case errors.Is(err, storage.ErrTooLarge):
		return nil, newError(ErrInvalid, "file is too large")
	case err != nil:
		return nil, err
	}

	file := &model.File{
		Title:       filepath.Base(fileName),
		URL:         obj.Key,
		ContentType: obj.ContentType,
		Size:        obj.Size,
	}
	if err := s.files.CreateFile(ctx, file); err != nil {
		if delErr := s.storage.Delete(obj.Key); delErr != nil {
			s.log.Error().Err(delErr).Str("key", obj.Key).Msg("failed to remove orphaned upload")
		}
		return nil, err
	}

	s.log.Info().Str("file_id", file.ID).Int64("size", file.Size).Msg("file uploaded")
	return file, nil
}

// Open returns the content of a stored upload and its content type.
func (s *FileService) Open(key string) (io.ReadCloser, string, error) {
	body, err := s.storage.Open(key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", newError(ErrNotFound, "file not found")
	}
	if err != nil {
		return nil, "", newError(ErrInvalid, "invalid file key")
	}
	return body, storage.ContentTypeOf(key), nil
}
