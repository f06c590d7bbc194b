package storage

import (
	"context"
	"errors"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader abstracts the object store holding photo-contest entries.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// ErrStorageDisabled is returned by the disabled uploader used when no
// object store is configured.
var ErrStorageDisabled = errors.New("photo storage is not configured")

type disabledUploader struct{}

// Disabled returns an uploader that rejects every operation, so the photo
// endpoints stay mounted but answer with a clear error.
func Disabled() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, string, string, io.Reader) (*UploadResult, error) {
	return nil, ErrStorageDisabled
}

func (disabledUploader) Delete(context.Context, string) error { return ErrStorageDisabled }

func (disabledUploader) GetPublicURL(string) string { return "" }
