package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var _ UserRepository = (*userRepository)(nil)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) UserRepository {
	return &userRepository{db: db}
}

// Resolve is a single upsert so two writers racing on the same user name
// converge on one row through the unique constraint.
func (r *userRepository) Resolve(ctx context.Context, userName string, trades int) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (user_name, trades)
		VALUES ($1, $2)
		ON CONFLICT (user_name) DO UPDATE SET
			trades = excluded.trades,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, userName, trades).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert user: %w", err)
	}

	return id, nil
}

func (r *userRepository) GetUser(ctx context.Context, userName string) (*User, error) {
	var user User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_name, trades, created_at, updated_at
		FROM users
		WHERE user_name = $1
	`, userName).Scan(&user.ID, &user.UserName, &user.Trades, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get user count: %w", err)
	}
	return count, nil
}
