package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/omara/internal/model"
)

// InfoPatch is a sparse update of a clothing info. Nil fields are left as
// they are.
type InfoPatch struct {
	PictureID *string
	Brand     *string
	Colors    *[]model.Color
	Types     *[]string
}

// Empty reports whether the patch changes nothing.
func (p InfoPatch) Empty() bool {
	return p.PictureID == nil && p.Brand == nil && p.Colors == nil && p.Types == nil
}

// CreateInfo creates a new clothing info.
func CreateInfo(ctx context.Context, q DBTX, ownerID, pictureID string, colors []model.Color, brand string, types []string, now time.Time) (*model.ClothingInfo, error) {
	if colors == nil {
		colors = []model.Color{}
	}
	if types == nil {
		types = []string{}
	}

	colorsJSON, err := json.Marshal(colors)
	if err != nil {
		return nil, fmt.Errorf("encoding colors: %w", err)
	}
	typesJSON, err := json.Marshal(types)
	if err != nil {
		return nil, fmt.Errorf("encoding types: %w", err)
	}

	info := &model.ClothingInfo{
		ID:        uuid.NewString(),
		PictureID: pictureID,
		Colors:    colors,
		Brand:     brand,
		Types:     types,
		OwnerID:   ownerID,
		CreatedAt: fromMillis(toMillis(now)),
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO clothing_infos (id, picture_id, colors, brand, types, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		info.ID, pictureID, string(colorsJSON), nullString(brand), string(typesJSON), ownerID, toMillis(now),
	)
	if err != nil {
		return nil, fmt.Errorf("creating clothing info: %w", err)
	}
	return info, nil
}

const infoColumns = `i.id, i.picture_id, i.colors, i.brand, i.types, i.owner_id, i.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInfo(row rowScanner, extra ...any) (*model.ClothingInfo, error) {
	info := &model.ClothingInfo{}
	var colors, types string
	var brand sql.NullString
	var createdAt int64
	dest := append([]any{&info.ID, &info.PictureID, &colors, &brand, &types, &info.OwnerID, &createdAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(colors), &info.Colors); err != nil {
		return nil, fmt.Errorf("decoding colors: %w", err)
	}
	if err := json.Unmarshal([]byte(types), &info.Types); err != nil {
		return nil, fmt.Errorf("decoding types: %w", err)
	}
	info.Brand = brand.String
	info.CreatedAt = fromMillis(createdAt)
	return info, nil
}

// GetInfo returns a clothing info owned by ownerID.
func GetInfo(ctx context.Context, q DBTX, ownerID, id string) (*model.ClothingInfo, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+infoColumns+` FROM clothing_infos i WHERE i.id = ? AND i.owner_id = ?`,
		id, ownerID,
	)
	info, err := scanInfo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting clothing info: %w", err)
	}
	return info, nil
}

// ListInfoViews returns all clothing infos of a user in creation order,
// with the content type of their picture filled in. Pieces and image URLs
// are left for the caller.
func ListInfoViews(ctx context.Context, q DBTX, ownerID string) ([]model.ItemView, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+infoColumns+`, u.content_type
		 FROM clothing_infos i
		 LEFT JOIN uploads u ON u.id = i.picture_id
		 WHERE i.owner_id = ?
		 ORDER BY i.created_at, i.rowid`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing clothing infos: %w", err)
	}
	defer rows.Close()

	views := []model.ItemView{}
	for rows.Next() {
		var contentType sql.NullString
		info, err := scanInfo(rows, &contentType)
		if err != nil {
			return nil, fmt.Errorf("scanning clothing info: %w", err)
		}
		views = append(views, model.ItemView{
			ClothingInfo: *info,
			ContentType:  contentType.String,
			Pieces:       []model.PieceView{},
		})
	}
	return views, rows.Err()
}

// UpdateInfo applies a sparse patch to a clothing info.
func UpdateInfo(ctx context.Context, q DBTX, id string, patch InfoPatch) error {
	if patch.Empty() {
		return nil
	}

	update := sq.Update("clothing_infos").Where(sq.Eq{"id": id})
	if patch.PictureID != nil {
		update = update.Set("picture_id", *patch.PictureID)
	}
	if patch.Brand != nil {
		update = update.Set("brand", nullString(*patch.Brand))
	}
	if patch.Colors != nil {
		colors := *patch.Colors
		if colors == nil {
			colors = []model.Color{}
		}
		b, err := json.Marshal(colors)
		if err != nil {
			return fmt.Errorf("encoding colors: %w", err)
		}
		update = update.Set("colors", string(b))
	}
	if patch.Types != nil {
		types := *patch.Types
		if types == nil {
			types = []string{}
		}
		b, err := json.Marshal(types)
		if err != nil {
			return fmt.Errorf("encoding types: %w", err)
		}
		update = update.Set("types", string(b))
	}

	if _, err := execBuilder(ctx, q, update); err != nil {
		return fmt.Errorf("updating clothing info: %w", err)
	}
	return nil
}

// RepointPicture switches every info of ownerID that uses oldID as its
// picture over to newID and returns how many were changed.
func RepointPicture(ctx context.Context, q DBTX, ownerID, oldID, newID string) (int64, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE clothing_infos SET picture_id = ? WHERE picture_id = ? AND owner_id = ?`,
		newID, oldID, ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("repointing pictures: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("repointing pictures: %w", err)
	}
	return n, nil
}

// CountInfosWithPicture returns how many infos reference a picture.
func CountInfosWithPicture(ctx context.Context, q DBTX, pictureID string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clothing_infos WHERE picture_id = ?`, pictureID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting picture references: %w", err)
	}
	return count, nil
}

// DeleteInfo deletes a clothing info. Its pieces must already be gone.
func DeleteInfo(ctx context.Context, q DBTX, id string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM clothing_infos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting clothing info: %w", err)
	}
	return nil
}
