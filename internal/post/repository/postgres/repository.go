package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnthoniusHendriyanto/post-service/db"
	"github.com/AnthoniusHendriyanto/post-service/internal/post/domain"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	db db.PgxIface
}

func NewPostgresRepository(conn db.PgxIface) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

func (r *PostgresRepository) Create(ctx context.Context, post *domain.Post) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO posts (id, user_id, image_key, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, $4, $5)
	`, post.ID, post.UserID, post.ImageKey, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit post: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE posts
		SET is_deleted = TRUE, deleted_at = now(), updated_at = now()
		WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE
	`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) GetActive(ctx context.Context, id, userID string) (*domain.Post, error) {
	query := `
		SELECT id, user_id, image_key, created_at, updated_at
		FROM posts
		WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE
	`
	var post domain.Post
	err := r.db.QueryRow(ctx, query, id, userID).
		Scan(&post.ID, &post.UserID, &post.ImageKey, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// ListByUser returns active posts, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Post, error) {
	query := `
		SELECT id, user_id, image_key, created_at, updated_at
		FROM posts
		WHERE user_id = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.ImageKey, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM posts WHERE user_id = $1 AND is_deleted = FALSE
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
