package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/omara/internal/model"
)

// CreateUpload reserves a new upload slot for a user.
func CreateUpload(ctx context.Context, q DBTX, ownerID string, now time.Time) (*model.Upload, error) {
	u := &model.Upload{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: fromMillis(toMillis(now)),
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO uploads (id, owner_id, created_at) VALUES (?, ?, ?)`,
		u.ID, ownerID, toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("creating upload: %w", err)
	}
	return u, nil
}

// GetUpload returns an upload slot owned by ownerID.
func GetUpload(ctx context.Context, q DBTX, ownerID, id string) (*model.Upload, error) {
	u := &model.Upload{}
	var contentType sql.NullString
	var size, completedAt sql.NullInt64
	var createdAt int64
	err := q.QueryRowContext(ctx,
		`SELECT id, owner_id, content_type, size, created_at, completed_at
		 FROM uploads WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&u.ID, &u.OwnerID, &contentType, &size, &createdAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting upload: %w", err)
	}
	u.ContentType = contentType.String
	u.Size = size.Int64
	u.CreatedAt = fromMillis(createdAt)
	u.CompletedAt = fromNullMillis(completedAt)
	return u, nil
}

// CompleteUpload marks a pending slot as filled. It reports false when the
// slot was already completed.
func CompleteUpload(ctx context.Context, q DBTX, id, contentType string, size int64, now time.Time) (bool, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE uploads SET content_type = ?, size = ?, completed_at = ?
		 WHERE id = ? AND completed_at IS NULL`,
		contentType, size, toMillis(now), id,
	)
	if err != nil {
		return false, fmt.Errorf("completing upload: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("completing upload: %w", err)
	}
	return n == 1, nil
}

// DeleteUpload forgets an upload slot.
func DeleteUpload(ctx context.Context, q DBTX, id string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM uploads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting upload: %w", err)
	}
	return nil
}
