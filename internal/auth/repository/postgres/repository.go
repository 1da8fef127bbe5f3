package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnthoniusHendriyanto/post-service/db"
	"github.com/AnthoniusHendriyanto/post-service/internal/auth/domain"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	db db.PgxIface
}

func NewPostgresRepository(conn db.PgxIface) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// GetActiveByEmail looks up a non-deleted user. It returns nil, nil when there
// is none.
func (r *PostgresRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1 AND is_deleted = FALSE
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, email)

	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// Create inserts the user in its own transaction. Any failure rolls the
// transaction back; a duplicate email surfaces as domain.ErrEmailTaken.
func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, $4, $5)
	`, user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		if db.IsUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if db.IsUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to commit user: %w", err)
	}

	return nil
}
