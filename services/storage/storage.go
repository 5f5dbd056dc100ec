package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// StorageServiceImpl uploads images to Cloudinary.
type StorageServiceImpl struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

// NewCloudinaryStorage creates a Cloudinary client from explicit credentials.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret, folder string, logger *zap.Logger) (*StorageServiceImpl, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &StorageServiceImpl{cld: cld, folder: folder, logger: logger}, nil
}

// UploadImage uploads a single image and returns its secure URL.
func (s *StorageServiceImpl) UploadImage(ctx context.Context, file io.Reader, filename string) (string, error) {
	params := uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       publicID(filename),
		UniqueFilename: api.Bool(true),
		ResourceType:   "image",
	}
	result, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("storage: cloudinary rejected upload: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("storage: no secure URL returned")
	}
	s.logger.Debug("image uploaded", zap.String("publicId", result.PublicID))
	return result.SecureURL, nil
}

// DeleteImage removes an uploaded image by public ID.
func (s *StorageServiceImpl) DeleteImage(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("storage: failed to delete image: %w", err)
	}
	return nil
}

// publicID strips the extension and path from an uploaded filename.
func publicID(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
