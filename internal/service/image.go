package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recipeImagePrefix = "recipe-images/"

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ObjectUploader stores an object and returns its public URL.
type ObjectUploader interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// ImageService uploads recipe images to object storage.
type ImageService struct {
	uploader ObjectUploader
	logger   *zap.Logger
}

// NewImageService creates an ImageService. A nil uploader disables uploads.
func NewImageService(uploader ObjectUploader, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageService{uploader: uploader, logger: logger}
}

// Enabled reports whether uploads can be served.
func (s *ImageService) Enabled() bool {
	return s != nil && s.uploader != nil
}

// UploadRecipeImage stores an image under a fresh key and returns its URL.
func (s *ImageService) UploadRecipeImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if !s.Enabled() {
		return "", ErrStorageUnavailable
	}

	ext := strings.ToLower(filepath.Ext(filename))
	detected, ok := allowedImageTypes[ext]
	if !ok {
		return "", validationError("unsupported image type %q", ext)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = detected
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", validationError("file is not an image")
	}

	key := fmt.Sprintf("%s%s%s", recipeImagePrefix, uuid.New().String(), ext)
	url, err := s.uploader.PutObject(ctx, key, contentType, body)
	if err != nil {
		s.logger.Error("failed to upload recipe image", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return url, nil
}
