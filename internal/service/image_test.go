package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/tastetrail/backend/internal/service"
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) PutObject(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, key, contentType, body)
	return args.String(0), args.Error(1)
}

func TestUploadRecipeImage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores under a fresh key", func(t *testing.T) {
		uploader := new(mockUploader)
		uploader.On("PutObject", ctx,
			mock.MatchedBy(func(key string) bool {
				return strings.HasPrefix(key, "recipe-images/") && strings.HasSuffix(key, ".png")
			}),
			"image/png", mock.Anything,
		).Return("https://cdn.example.com/recipe-images/x.png", nil).Once()

		images := service.NewImageService(uploader, nil)
		url, err := images.UploadRecipeImage(ctx, "Photo.PNG", "application/octet-stream", strings.NewReader("png"))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/recipe-images/x.png", url)
		uploader.AssertExpectations(t)
	})

	t.Run("rejects unsupported files", func(t *testing.T) {
		images := service.NewImageService(new(mockUploader), nil)
		_, err := images.UploadRecipeImage(ctx, "notes.txt", "text/plain", strings.NewReader("hi"))
		assert.ErrorIs(t, err, service.ErrValidation)

		_, err = images.UploadRecipeImage(ctx, "fake.jpg", "text/html", strings.NewReader("hi"))
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("storage not configured", func(t *testing.T) {
		images := service.NewImageService(nil, nil)
		assert.False(t, images.Enabled())
		_, err := images.UploadRecipeImage(ctx, "a.jpg", "image/jpeg", strings.NewReader("jpg"))
		assert.ErrorIs(t, err, service.ErrStorageUnavailable)
	})

	t.Run("upload failure", func(t *testing.T) {
		uploader := new(mockUploader)
		uploader.On("PutObject", ctx, mock.Anything, "image/jpeg", mock.Anything).Return("", errors.New("bucket gone"))

		images := service.NewImageService(uploader, nil)
		_, err := images.UploadRecipeImage(ctx, "a.jpeg", "image/jpeg", strings.NewReader("jpg"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket gone")
	})
}
