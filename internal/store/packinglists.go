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

// CreatePackingList creates a packing list with no items.
func CreatePackingList(ctx context.Context, q DBTX, ownerID string, f model.PackingListFields, now time.Time) (*model.PackingList, error) {
	pl := &model.PackingList{
		ID:                uuid.NewString(),
		Name:              f.Name,
		Description:       f.Description,
		DepartureDate:     f.DepartureDate,
		PackingLocationID: f.PackingLocationID,
		Items:             []string{},
		OwnerID:           ownerID,
		CreatedAt:         fromMillis(toMillis(now)),
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO packing_lists (id, name, description, departure_date, packing_location_id, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pl.ID, f.Name, nullString(f.Description), nullMillis(f.DepartureDate),
		nullString(f.PackingLocationID), ownerID, toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("creating packing list: %w", err)
	}
	return pl, nil
}

func packingListSelect(ownerID string) sq.SelectBuilder {
	return sq.Select("id", "name", "description", "departure_date", "packing_location_id",
		"expired", "owner_id", "created_at").
		From("packing_lists").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at", "rowid")
}

func listPackingLists(ctx context.Context, q DBTX, query sq.SelectBuilder) ([]model.PackingList, error) {
	rows, err := queryBuilder(ctx, q, query)
	if err != nil {
		return nil, fmt.Errorf("listing packing lists: %w", err)
	}

	lists := []model.PackingList{}
	for rows.Next() {
		var pl model.PackingList
		var description, locationID sql.NullString
		var departure sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&pl.ID, &pl.Name, &description, &departure, &locationID,
			&pl.Expired, &pl.OwnerID, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning packing list: %w", err)
		}
		pl.Description = description.String
		pl.DepartureDate = fromNullMillis(departure)
		pl.PackingLocationID = locationID.String
		pl.CreatedAt = fromMillis(createdAt)
		lists = append(lists, pl)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("listing packing lists: %w", err)
	}

	ids := make([]string, len(lists))
	for i := range lists {
		ids[i] = lists[i].ID
	}
	items, err := loadListItems(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		lists[i].Items = items[lists[i].ID]
		if lists[i].Items == nil {
			lists[i].Items = []string{}
		}
	}
	return lists, nil
}

func loadListItems(ctx context.Context, q DBTX, listIDs []string) (map[string][]string, error) {
	items := make(map[string][]string, len(listIDs))
	if len(listIDs) == 0 {
		return items, nil
	}

	query := sq.Select("list_id", "piece_id").
		From("packing_list_items").
		Where(sq.Eq{"list_id": listIDs}).
		OrderBy("list_id", "position", "id")

	rows, err := queryBuilder(ctx, q, query)
	if err != nil {
		return nil, fmt.Errorf("loading packing list items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listID, pieceID string
		if err := rows.Scan(&listID, &pieceID); err != nil {
			return nil, fmt.Errorf("scanning packing list item: %w", err)
		}
		items[listID] = append(items[listID], pieceID)
	}
	return items, rows.Err()
}

// GetPackingList returns a packing list owned by ownerID, with its items.
func GetPackingList(ctx context.Context, q DBTX, ownerID, id string) (*model.PackingList, error) {
	lists, err := listPackingLists(ctx, q, packingListSelect(ownerID).Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("getting packing list: %w", err)
	}
	if len(lists) == 0 {
		return nil, nil
	}
	return &lists[0], nil
}

// ListPackingLists returns all packing lists of a user in creation order.
func ListPackingLists(ctx context.Context, q DBTX, ownerID string) ([]model.PackingList, error) {
	return listPackingLists(ctx, q, packingListSelect(ownerID))
}

// UpdatePackingList replaces the editable fields of a packing list.
func UpdatePackingList(ctx context.Context, q DBTX, id string, f model.PackingListFields) error {
	update := sq.Update("packing_lists").
		Set("name", f.Name).
		Set("description", nullString(f.Description)).
		Set("departure_date", nullMillis(f.DepartureDate)).
		Set("packing_location_id", nullString(f.PackingLocationID)).
		Where(sq.Eq{"id": id})

	if _, err := execBuilder(ctx, q, update); err != nil {
		return fmt.Errorf("updating packing list: %w", err)
	}
	return nil
}

// AppendListItems appends piece ids to the end of a list's items, in order.
// Ids already present are appended again.
func AppendListItems(ctx context.Context, q DBTX, listID string, pieceIDs []string) error {
	if len(pieceIDs) == 0 {
		return nil
	}

	var next int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM packing_list_items WHERE list_id = ?`, listID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("reading packing list items: %w", err)
	}

	insert := sq.Insert("packing_list_items").Columns("list_id", "piece_id", "position")
	for i, id := range pieceIDs {
		insert = insert.Values(listID, id, next+i)
	}
	if _, err := execBuilder(ctx, q, insert); err != nil {
		return fmt.Errorf("adding packing list items: %w", err)
	}
	return nil
}

// RemoveListItems removes every occurrence of the given pieces from a list.
func RemoveListItems(ctx context.Context, q DBTX, listID string, pieceIDs []string) error {
	if len(pieceIDs) == 0 {
		return nil
	}

	del := sq.Delete("packing_list_items").
		Where(sq.Eq{"list_id": listID, "piece_id": pieceIDs})
	if _, err := execBuilder(ctx, q, del); err != nil {
		return fmt.Errorf("removing packing list items: %w", err)
	}
	return nil
}

// RemovePieceFromAllLists removes a piece from the items of every list.
func RemovePieceFromAllLists(ctx context.Context, q DBTX, pieceID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM packing_list_items WHERE piece_id = ?`, pieceID)
	if err != nil {
		return fmt.Errorf("removing piece from packing lists: %w", err)
	}
	return nil
}

// ExpirePackingList clears a list's items and marks it expired.
func ExpirePackingList(ctx context.Context, q DBTX, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM packing_list_items WHERE list_id = ?`, id); err != nil {
		return fmt.Errorf("clearing packing list items: %w", err)
	}
	if _, err := q.ExecContext(ctx, `UPDATE packing_lists SET expired = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("expiring packing list: %w", err)
	}
	return nil
}
