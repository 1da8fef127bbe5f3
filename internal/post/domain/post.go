package domain

import "time"

type Post struct {
	ID        string
	UserID    string
	ImageKey  string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
