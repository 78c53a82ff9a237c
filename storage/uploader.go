package storage

import (
	"context"
	"errors"
	"io"
)

// ErrUploadsDisabled is returned when no object storage is configured.
var ErrUploadsDisabled = errors.New("file uploads are not configured")

type UploadResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	ETag     string `json:"etag,omitempty"`
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// DisabledUploader rejects every upload.
type DisabledUploader struct{}

func (DisabledUploader) Upload(context.Context, string, string, io.Reader) (*UploadResult, error) {
	return nil, ErrUploadsDisabled
}

func (DisabledUploader) Delete(context.Context, string) error { return ErrUploadsDisabled }

func (DisabledUploader) GetPublicURL(string) string { return "" }
