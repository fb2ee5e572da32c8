package database

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by PostRepository.Insert when a post with the same
// external id is already stored.
var ErrDuplicate = errors.New("post already exists")

type UserRepository interface {
	// Resolve returns the id for userName, creating the user on first sight.
	// The stored trade count is overwritten with trades on every call.
	Resolve(ctx context.Context, userName string, trades int) (int64, error)
	GetUser(ctx context.Context, userName string) (*User, error)
	GetUserCount(ctx context.Context) (int, error)
}

type PostRepository interface {
	Exists(ctx context.Context, externalID string) (bool, error)
	Insert(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, externalID string) (*Post, error)
	GetPostCount(ctx context.Context) (int, error)
}
