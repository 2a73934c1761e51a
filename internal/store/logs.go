package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/omara/internal/model"
)

// CreateLog appends a new location log. A lost log must not carry a location.
func CreateLog(ctx context.Context, q DBTX, locationID, packingListID string, lost bool, now time.Time) (*model.LocationLog, error) {
	if lost && locationID != "" {
		return nil, fmt.Errorf("lost log cannot have a location")
	}

	l := &model.LocationLog{
		ID:            uuid.NewString(),
		LocationID:    locationID,
		PackingListID: packingListID,
		Lost:          lost,
		CreatedAt:     fromMillis(toMillis(now)),
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO location_logs (id, location_id, packing_list_id, lost, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		l.ID, nullString(locationID), nullString(packingListID), lost, toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("creating location log: %w", err)
	}
	return l, nil
}

// ListLogEntries returns the logs with the given ids that belong to one of
// ownerID's pieces, joined with their location and packing list, newest
// first. A location or list that no longer resolves is returned as nil.
func ListLogEntries(ctx context.Context, q DBTX, ownerID string, ids []string) ([]model.LogEntry, error) {
	if len(ids) == 0 {
		return []model.LogEntry{}, nil
	}

	query := sq.Select(
		"l.id", "l.location_id", "l.packing_list_id", "l.lost", "l.created_at",
		"loc.id", "loc.name", "pl.id", "pl.name",
	).
		From("location_logs l").
		LeftJoin("locations loc ON loc.id = l.location_id").
		LeftJoin("packing_lists pl ON pl.id = l.packing_list_id").
		Where(sq.Eq{"l.id": ids}).
		Where(`EXISTS (
			SELECT 1 FROM piece_history h
			JOIN clothing_pieces p ON p.id = h.piece_id
			JOIN clothing_infos i ON i.id = p.info_id
			WHERE h.log_id = l.id AND i.owner_id = ?)`, ownerID).
		OrderBy("l.created_at DESC", "l.rowid DESC")

	rows, err := queryBuilder(ctx, q, query)
	if err != nil {
		return nil, fmt.Errorf("listing location logs: %w", err)
	}
	defer rows.Close()

	entries := []model.LogEntry{}
	for rows.Next() {
		var e model.LogEntry
		var locationID, listID, locID, locName, plID, plName sql.NullString
		var createdAt int64
		if err := rows.Scan(&e.ID, &locationID, &listID, &e.Lost, &createdAt,
			&locID, &locName, &plID, &plName); err != nil {
			return nil, fmt.Errorf("scanning location log: %w", err)
		}
		e.LocationID = locationID.String
		e.PackingListID = listID.String
		e.CreatedAt = fromMillis(createdAt)
		if locID.Valid {
			e.Location = &model.LocationRef{ID: locID.String, Name: locName.String}
		}
		if plID.Valid {
			e.PackingList = &model.PackingListRef{ID: plID.String, Name: plName.String}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
