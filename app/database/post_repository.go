package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var _ PostRepository = (*postRepository)(nil)

type postRepository struct {
	db *DB
}

func NewPostRepository(db *DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Exists(ctx context.Context, externalID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM posts WHERE external_id = $1)", externalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}
	return exists, nil
}

// Insert stores a new post. The unique constraint on external_id is the
// authoritative duplicate check; a conflicting insert reports ErrDuplicate.
func (r *postRepository) Insert(ctx context.Context, post *Post) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (
			external_id, source_id, post_url, user_id, post_time,
			country, state, have_text, want_text, is_selling, body
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (external_id) DO NOTHING
	`, post.ExternalID, post.SourceID, post.Permalink, post.UserID, post.PostedAt.UTC(),
		post.Country, post.Region, post.HaveText, post.WantText, post.IsSelling, post.Body)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrDuplicate
	}

	return nil
}

func (r *postRepository) GetPost(ctx context.Context, externalID string) (*Post, error) {
	var post Post
	err := r.db.QueryRowContext(ctx, `
		SELECT id, external_id, source_id, post_url, user_id, post_time,
		       country, state, have_text, want_text, is_selling, body, created_at
		FROM posts
		WHERE external_id = $1
	`, externalID).Scan(
		&post.ID, &post.ExternalID, &post.SourceID, &post.Permalink, &post.UserID, &post.PostedAt,
		&post.Country, &post.Region, &post.HaveText, &post.WantText, &post.IsSelling, &post.Body,
		&post.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

func (r *postRepository) GetPostCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}
