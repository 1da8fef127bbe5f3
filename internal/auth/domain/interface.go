package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/AnthoniusHendriyanto/post-service/internal/auth/domain UserRepository

import "context"

type UserRepository interface {
	// GetActiveByEmail returns nil, nil when no non-deleted user has the email.
	GetActiveByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}
