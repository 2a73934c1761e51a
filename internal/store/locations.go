package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/omara/internal/model"
)

// CreateLocation creates a new location for a user.
func CreateLocation(ctx context.Context, q DBTX, ownerID, name string, now time.Time) (*model.Location, error) {
	loc := &model.Location{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: fromMillis(toMillis(now)),
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO locations (id, name, owner_id, created_at) VALUES (?, ?, ?, ?)`,
		loc.ID, loc.Name, loc.OwnerID, toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}
	return loc, nil
}

// GetLocation returns a location owned by ownerID.
func GetLocation(ctx context.Context, q DBTX, ownerID, id string) (*model.Location, error) {
	loc := &model.Location{}
	var createdAt int64
	err := q.QueryRowContext(ctx,
		`SELECT id, name, owner_id, created_at
		 FROM locations WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&loc.ID, &loc.Name, &loc.OwnerID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	loc.CreatedAt = fromMillis(createdAt)
	return loc, nil
}

// ListLocations returns all locations of a user, ordered by name.
func ListLocations(ctx context.Context, q DBTX, ownerID string) ([]model.Location, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, owner_id, created_at
		 FROM locations WHERE owner_id = ? ORDER BY name, rowid`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	locations := []model.Location{}
	for rows.Next() {
		var loc model.Location
		var createdAt int64
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.OwnerID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		loc.CreatedAt = fromMillis(createdAt)
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}
