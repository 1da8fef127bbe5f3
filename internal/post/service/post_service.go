package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/post-service/config"
	autherror "github.com/AnthoniusHendriyanto/post-service/internal/errors"
	"github.com/AnthoniusHendriyanto/post-service/internal/post/domain"
	"github.com/AnthoniusHendriyanto/post-service/internal/post/dto"
	"github.com/AnthoniusHendriyanto/post-service/internal/storage"
	"github.com/google/uuid"
)

const (
	MsgPostDeleted = "Data deleted successfully"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PostService struct {
	repo           domain.PostRepository
	store          storage.ImageStore
	maxUploadBytes int64
	log            *slog.Logger
}

func NewPostService(repo domain.PostRepository, store storage.ImageStore, cfg *config.Config, log *slog.Logger) *PostService {
	maxBytes := int64(cfg.MaxUploadBytes)
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxUploadBytes
	}

	return &PostService{
		repo:           repo,
		store:          store,
		maxUploadBytes: maxBytes,
		log:            log.With(slog.String("component", "post_service")),
	}
}

func (s *PostService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

func insertedMessage(postID string) string {
	return fmt.Sprintf("Your PostID %s inserted successfully", postID)
}

func recordNotFound(postID string) error {
	return autherror.NotFound(fmt.Sprintf("Record with id %s not found", postID))
}

// Create stores the image and then the post row. If the row cannot be
// written the image is removed again.
func (s *PostService) Create(ctx context.Context, userID string, input dto.UploadInput) (*dto.UploadResponse, error) {
	if len(input.Data) == 0 {
		return nil, autherror.ErrMissingImage
	}
	if input.Size > s.maxUploadBytes || int64(len(input.Data)) > s.maxUploadBytes {
		return nil, autherror.ErrFileTooLarge
	}

	contentType := http.DetectContentType(input.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, autherror.ErrUnsupportedImage
	}

	key := storage.NewKey(userID, contentType)
	if err := s.store.Save(ctx, key, contentType, input.Data); err != nil {
		s.log.Error("image save failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, autherror.Internal(err)
	}

	now := time.Now().UTC()
	post := &domain.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		ImageKey:  key,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.log.Error("post insert failed", slog.String("user_id", userID), slog.Any("error", err))
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("orphaned image", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, autherror.Internal(err)
	}

	s.log.Info("post created", slog.String("user_id", userID), slog.String("post_id", post.ID))

	return &dto.UploadResponse{
		Message: insertedMessage(post.ID),
		PostID:  post.ID,
	}, nil
}

// Delete soft-deletes one of the caller's posts and removes its image.
// Posts owned by someone else are reported as not found.
func (s *PostService) Delete(ctx context.Context, userID, postID string) (*dto.DeleteResponse, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, recordNotFound(postID)
	}

	post, err := s.repo.GetActive(ctx, postID, userID)
	if err != nil {
		s.log.Error("post lookup failed", slog.String("post_id", postID), slog.Any("error", err))
		return nil, autherror.Internal(err)
	}
	if post == nil {
		return nil, recordNotFound(postID)
	}

	found, err := s.repo.SoftDelete(ctx, postID, userID)
	if err != nil {
		s.log.Error("post delete failed", slog.String("post_id", postID), slog.Any("error", err))
		return nil, autherror.Internal(err)
	}
	if !found {
		// Deleted concurrently.
		return nil, recordNotFound(postID)
	}

	if err := s.store.Delete(ctx, post.ImageKey); err != nil {
		s.log.Warn("image delete failed", slog.String("key", post.ImageKey), slog.Any("error", err))
	}

	return &dto.DeleteResponse{Message: MsgPostDeleted}, nil
}

// List returns one page of the caller's active posts, newest first.
func (s *PostService) List(ctx context.Context, userID string, page, pageSize int) (*dto.PostListResponse, error) {
	if page < 1 || pageSize < 1 || pageSize > MaxPageSize || page-1 > math.MaxInt32/pageSize {
		return nil, autherror.ErrInvalidPagination
	}

	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		s.log.Error("post count failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, autherror.Internal(err)
	}

	posts, err := s.repo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		s.log.Error("post list failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, autherror.Internal(err)
	}
	if len(posts) == 0 {
		return nil, autherror.ErrNoPostsFound
	}

	out := make([]dto.PostOutput, 0, len(posts))
	for _, p := range posts {
		url, err := s.store.URL(ctx, p.ImageKey)
		if err != nil {
			s.log.Error("image url failed", slog.String("key", p.ImageKey), slog.Any("error", err))
			return nil, autherror.Internal(err)
		}
		out = append(out, dto.PostOutput{ID: p.ID, ImageURL: url, CreatedAt: p.CreatedAt})
	}

	return &dto.PostListResponse{
		Data:     out,
		Total:    total,
		Count:    len(out),
		Page:     page,
		PageSize: pageSize,
	}, nil
}
