package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/omara/internal/model"
)

// CreateUser creates a new user.
func CreateUser(ctx context.Context, q DBTX, username, passwordHash string, now time.Time) (*model.User, error) {
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    fromMillis(toMillis(now)),
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, username, passwordHash, toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

func getUser(ctx context.Context, q DBTX, where string, arg any) (*model.User, error) {
	u := &model.User{}
	var createdAt int64
	err := q.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE `+where+` = ?`, arg,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, q DBTX, id string) (*model.User, error) {
	u, err := getUser(ctx, q, "id", id)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username.
func GetUserByUsername(ctx context.Context, q DBTX, username string) (*model.User, error) {
	u, err := getUser(ctx, q, "username", username)
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// CountUsers returns the number of registered users.
func CountUsers(ctx context.Context, q DBTX) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, q DBTX, id, passwordHash string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}
