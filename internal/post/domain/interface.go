package domain

//go:generate mockgen -destination=../../mocks/mock_post_repository.go -package=mocks github.com/AnthoniusHendriyanto/post-service/internal/post/domain PostRepository

import "context"

// PostRepository queries are always scoped to the owning user.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	// SoftDelete marks the post deleted and reports whether an active post
	// owned by userID was found.
	SoftDelete(ctx context.Context, id, userID string) (bool, error)
	// GetActive returns nil, nil when the post is missing, deleted or owned by
	// someone else.
	GetActive(ctx context.Context, id, userID string) (*Post, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Post, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
