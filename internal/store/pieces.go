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

// CreatePiece creates a piece of an info at a location, with logID as the
// only entry of its history.
func CreatePiece(ctx context.Context, q DBTX, infoID, locationID, logID string, now time.Time) (*model.ClothingPiece, error) {
	p := &model.ClothingPiece{
		ID:                uuid.NewString(),
		InfoID:            infoID,
		CurrentLocationID: locationID,
		LocationHistory:   []string{logID},
		CreatedAt:         fromMillis(toMillis(now)),
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO clothing_pieces (id, info_id, current_location_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		p.ID, infoID, locationID, toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("creating piece: %w", err)
	}

	if err := AppendHistory(ctx, q, p.ID, logID); err != nil {
		return nil, err
	}
	return p, nil
}

// AppendHistory appends a log to the end of a piece's location history.
func AppendHistory(ctx context.Context, q DBTX, pieceID, logID string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO piece_history (piece_id, position, log_id)
		 SELECT ?, COALESCE(MAX(position) + 1, 0), ? FROM piece_history WHERE piece_id = ?`,
		pieceID, logID, pieceID,
	)
	if err != nil {
		return fmt.Errorf("appending piece history: %w", err)
	}
	return nil
}

// UpdatePiece writes the mutable state of a piece: its current location,
// the list it is packed in and when it was lost.
func UpdatePiece(ctx context.Context, q DBTX, p *model.ClothingPiece) error {
	_, err := q.ExecContext(ctx,
		`UPDATE clothing_pieces SET current_location_id = ?, packed_in_id = ?, lost_at = ?
		 WHERE id = ?`,
		p.CurrentLocationID, nullString(p.PackedIn), nullMillis(p.LostAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating piece: %w", err)
	}
	return nil
}

const pieceColumns = `p.id, p.info_id, p.current_location_id, p.packed_in_id, p.lost_at, p.created_at`

func pieceSelect(ownerID string) sq.SelectBuilder {
	return sq.Select(pieceColumns, "loc.id", "loc.name").
		From("clothing_pieces p").
		Join("clothing_infos i ON i.id = p.info_id").
		LeftJoin("locations loc ON loc.id = p.current_location_id").
		Where(sq.Eq{"i.owner_id": ownerID}).
		OrderBy("p.created_at", "p.rowid")
}

// listPieceViews runs a piece select and then loads the history of every
// returned piece. Rows are drained before the history query so the single
// connection is free.
func listPieceViews(ctx context.Context, q DBTX, query sq.SelectBuilder) ([]model.PieceView, error) {
	rows, err := queryBuilder(ctx, q, query)
	if err != nil {
		return nil, fmt.Errorf("listing pieces: %w", err)
	}

	pieces := []model.PieceView{}
	for rows.Next() {
		var v model.PieceView
		var packedIn, locID, locName sql.NullString
		var lostAt sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&v.ID, &v.InfoID, &v.CurrentLocationID, &packedIn, &lostAt, &createdAt,
			&locID, &locName); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning piece: %w", err)
		}
		v.PackedIn = packedIn.String
		v.LostAt = fromNullMillis(lostAt)
		v.CreatedAt = fromMillis(createdAt)
		if locID.Valid {
			v.CurrentLocation = &model.LocationRef{ID: locID.String, Name: locName.String}
		}
		pieces = append(pieces, v)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("listing pieces: %w", err)
	}

	ids := make([]string, len(pieces))
	for i := range pieces {
		ids[i] = pieces[i].ID
	}
	history, err := loadHistories(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range pieces {
		pieces[i].LocationHistory = history[pieces[i].ID]
		if pieces[i].LocationHistory == nil {
			pieces[i].LocationHistory = []string{}
		}
	}
	return pieces, nil
}

func loadHistories(ctx context.Context, q DBTX, pieceIDs []string) (map[string][]string, error) {
	history := make(map[string][]string, len(pieceIDs))
	if len(pieceIDs) == 0 {
		return history, nil
	}

	query := sq.Select("piece_id", "log_id").
		From("piece_history").
		Where(sq.Eq{"piece_id": pieceIDs}).
		OrderBy("piece_id", "position")

	rows, err := queryBuilder(ctx, q, query)
	if err != nil {
		return nil, fmt.Errorf("loading piece history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pieceID, logID string
		if err := rows.Scan(&pieceID, &logID); err != nil {
			return nil, fmt.Errorf("scanning piece history: %w", err)
		}
		history[pieceID] = append(history[pieceID], logID)
	}
	return history, rows.Err()
}

// GetPiece returns a piece reachable through an info owned by ownerID.
func GetPiece(ctx context.Context, q DBTX, ownerID, id string) (*model.ClothingPiece, error) {
	pieces, err := listPieceViews(ctx, q, pieceSelect(ownerID).Where(sq.Eq{"p.id": id}))
	if err != nil {
		return nil, fmt.Errorf("getting piece: %w", err)
	}
	if len(pieces) == 0 {
		return nil, nil
	}
	return &pieces[0].ClothingPiece, nil
}

// ListPiecesByIDs returns the pieces among ids that ownerID owns. Unknown
// ids are skipped.
func ListPiecesByIDs(ctx context.Context, q DBTX, ownerID string, ids []string) ([]model.PieceView, error) {
	if len(ids) == 0 {
		return []model.PieceView{}, nil
	}
	return listPieceViews(ctx, q, pieceSelect(ownerID).Where(sq.Eq{"p.id": ids}))
}

// ListPiecesByInfos returns the pieces of the given infos, grouped by info id.
func ListPiecesByInfos(ctx context.Context, q DBTX, ownerID string, infoIDs []string) (map[string][]model.PieceView, error) {
	byInfo := make(map[string][]model.PieceView, len(infoIDs))
	if len(infoIDs) == 0 {
		return byInfo, nil
	}

	pieces, err := listPieceViews(ctx, q, pieceSelect(ownerID).Where(sq.Eq{"p.info_id": infoIDs}))
	if err != nil {
		return nil, err
	}
	for _, p := range pieces {
		byInfo[p.InfoID] = append(byInfo[p.InfoID], p)
	}
	return byInfo, nil
}

// ListPiecesPackedIn returns the pieces currently packed into a list.
func ListPiecesPackedIn(ctx context.Context, q DBTX, ownerID, listID string) ([]model.PieceView, error) {
	return listPieceViews(ctx, q, pieceSelect(ownerID).Where(sq.Eq{"p.packed_in_id": listID}))
}

// CountPiecesByInfo returns the number of pieces of an info.
func CountPiecesByInfo(ctx context.Context, q DBTX, infoID string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clothing_pieces WHERE info_id = ?`, infoID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting pieces: %w", err)
	}
	return count, nil
}

// DeletePiece deletes a piece together with its history links. The logs
// themselves are immutable and stay.
func DeletePiece(ctx context.Context, q DBTX, id string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM clothing_pieces WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting piece: %w", err)
	}
	return nil
}
