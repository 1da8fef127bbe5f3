package storage

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/AnthoniusHendriyanto/post-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	keyPattern := regexp.MustCompile(`^posts/user-1/[0-9a-f-]{36}(\.\w+)?$`)

	tests := []struct {
		contentType string
		ext         string
	}{
		{"image/png", ".png"},
		{"image/jpeg", ".jpg"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
		{"image/tiff", ""},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			key := NewKey("user-1", tt.contentType)
			assert.Regexp(t, keyPattern, key)
			assert.Equal(t, tt.ext, filepath.Ext(key))
		})
	}

	assert.NotEqual(t, NewKey("user-1", "image/png"), NewKey("user-1", "image/png"))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("local by default", func(t *testing.T) {
		store, err := New(ctx, &config.Config{UploadDir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &DiskStore{}, store)
	})

	t.Run("s3", func(t *testing.T) {
		store, err := New(ctx, &config.Config{
			StorageBackend: BackendS3,
			S3Bucket:       "images",
			S3Region:       "us-east-1",
			S3Endpoint:     "http://127.0.0.1:9000",
			S3AccessKey:    "key",
			S3SecretKey:    "secret",
		})
		require.NoError(t, err)
		assert.IsType(t, &S3Store{}, store)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := New(ctx, &config.Config{StorageBackend: "ftp"})
		assert.Error(t, err)
	})
}
