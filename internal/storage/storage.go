// Package storage keeps post images outside the database. A post row only
// stores the key; the store turns it into a URL.
package storage

//go:generate mockgen -destination=../mocks/mock_image_store.go -package=mocks github.com/AnthoniusHendriyanto/post-service/internal/storage ImageStore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AnthoniusHendriyanto/post-service/config"
	"github.com/google/uuid"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"

	// StaticPrefix is the route DiskStore URLs are served under.
	StaticPrefix = "/static"
)

var ErrInvalidKey = errors.New("invalid storage key")

type ImageStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) error
	// Delete succeeds when the key is already gone.
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

var extensions = map[string]string{
	"image/png":    ".png",
	"image/jpeg":   ".jpg",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
}

// NewKey returns a fresh key of the form posts/<userID>/<uuid><ext>.
func NewKey(userID, contentType string) string {
	return fmt.Sprintf("posts/%s/%s%s", userID, uuid.New(), extensions[contentType])
}

// New builds the store selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.StorageBackend {
	case "", BackendLocal:
		return NewDiskStore(cfg.UploadDir, StaticPrefix)
	case BackendS3:
		return NewS3Store(ctx, S3Options{
			Bucket:     cfg.S3Bucket,
			Region:     cfg.S3Region,
			Endpoint:   cfg.S3Endpoint,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			PresignTTL: time.Duration(cfg.S3PresignMinutes) * time.Minute,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
