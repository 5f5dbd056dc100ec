package storage

import (
	"context"
	"io"
)

// StorageService stores room images and returns their public URLs.
type StorageService interface {
	UploadImage(ctx context.Context, file io.Reader, filename string) (string, error)
	DeleteImage(ctx context.Context, publicID string) error
}
