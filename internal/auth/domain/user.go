package domain

import (
	"errors"
	"time"
)

// ErrEmailTaken is returned by UserRepository.Create when the unique email
// index rejects the insert.
var ErrEmailTaken = errors.New("email already taken")

type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}
