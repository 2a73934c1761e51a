package closet

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/omara/internal/metrics"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

// NewItem is one group of identical pieces to catalog.
type NewItem struct {
	StorageID string   `json:"storage_id"`
	Colors    []string `json:"colors"`
	Brand     string   `json:"brand"`
	Types     []string `json:"types"`
	Quantity  int      `json:"quantity"`
}

// InfoPatch is a sparse edit of a clothing info. Nil fields are left
// unchanged. Brand is cleared when ForceBrand is set and Brand is nil.
type InfoPatch struct {
	PictureID  *string   `json:"picture_id"`
	Brand      *string   `json:"brand"`
	ForceBrand bool      `json:"force_brand"`
	Types      *[]string `json:"types"`
	Colors     *[]string `json:"colors"`
}

// CreateItems catalogs each group as one ClothingInfo with Quantity pieces,
// all starting at locationID and sharing one initial log per group.
func (s *Service) CreateItems(ctx context.Context, userID string, items []NewItem, locationID string) (infos []model.ClothingInfo, err error) {
	defer observe("create_items", &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, NewValidationError("items", "at least one item is required")
	}

	type prepared struct {
		item   NewItem
		colors []model.Color
		types  []string
	}
	groups := make([]prepared, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		colors, err := parseColors(it.Colors)
		if err != nil {
			return nil, err
		}
		groups = append(groups, prepared{item: it, colors: colors, types: cleanTypes(it.Types)})
	}

	now := s.now()
	pieces := 0
	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := requireLocation(ctx, tx, userID, locationID); err != nil {
			return err
		}

		for _, g := range groups {
			if _, err := requireImage(ctx, tx, userID, g.item.StorageID); err != nil {
				return err
			}

			info, err := store.CreateInfo(ctx, tx, userID, g.item.StorageID, g.colors,
				strings.TrimSpace(g.item.Brand), g.types, now)
			if err != nil {
				return err
			}
			log, err := store.CreateLog(ctx, tx, locationID, "", false, now)
			if err != nil {
				return err
			}
			for range g.item.Quantity {
				if _, err := store.CreatePiece(ctx, tx, info.ID, locationID, log.ID, now); err != nil {
					return err
				}
			}
			pieces += g.item.Quantity
			infos = append(infos, *info)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating items: %w", err)
	}

	metrics.PiecesChangedTotal.WithLabelValues("created").Add(float64(pieces))
	slog.Info("items created", "user", userID, "infos", len(infos), "pieces", pieces, "location", locationID)
	return infos, nil
}

// ListItems returns the user's clothing infos joined with their pieces,
// each piece's current location and an image URL.
func (s *Service) ListItems(ctx context.Context, userID string) ([]model.ItemView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	views, err := store.ListInfoViews(ctx, s.DB, userID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	ids := make([]string, len(views))
	for i := range views {
		ids[i] = views[i].ID
	}
	pieces, err := store.ListPiecesByInfos(ctx, s.DB, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	for i := range views {
		if p := pieces[views[i].ID]; p != nil {
			views[i].Pieces = p
		}
		views[i].ImageURL = s.imageURL(ctx, views[i].PictureID)
	}
	return views, nil
}

// ListPieces returns the pieces of one clothing info.
func (s *Service) ListPieces(ctx context.Context, userID, infoID string) ([]model.PieceView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	info, err := store.GetInfo(ctx, s.DB, userID, infoID)
	if err != nil {
		return nil, fmt.Errorf("listing pieces: %w", err)
	}
	if info == nil {
		return nil, ErrInfoNotFound
	}

	pieces, err := store.ListPiecesByInfos(ctx, s.DB, userID, []string{infoID})
	if err != nil {
		return nil, fmt.Errorf("listing pieces: %w", err)
	}
	if pieces[infoID] == nil {
		return []model.PieceView{}, nil
	}
	return pieces[infoID], nil
}

// AddPiece creates one more piece of an existing info at a location.
func (s *Service) AddPiece(ctx context.Context, userID, infoID, locationID string) (piece *model.ClothingPiece, err error) {
	defer observe("add_piece", &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	now := s.now()
	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		info, err := store.GetInfo(ctx, tx, userID, infoID)
		if err != nil {
			return err
		}
		if info == nil {
			return ErrInfoNotFound
		}
		if err := requireLocation(ctx, tx, userID, locationID); err != nil {
			return err
		}

		log, err := store.CreateLog(ctx, tx, locationID, "", false, now)
		if err != nil {
			return err
		}
		piece, err = store.CreatePiece(ctx, tx, infoID, locationID, log.ID, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("adding piece: %w", err)
	}

	metrics.PiecesChangedTotal.WithLabelValues("created").Inc()
	slog.Info("piece added", "user", userID, "info", infoID, "piece", piece.ID)
	return piece, nil
}

// DeletePiece deletes a piece after removing it from every packing list.
// When it was the last piece of its info, the info and its picture go too.
func (s *Service) DeletePiece(ctx context.Context, userID, pieceID string) (err error) {
	defer observe("delete_piece", &err)
	if err := requireUser(userID); err != nil {
		return err
	}

	var orphanedPicture string
	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		piece, err := store.GetPiece(ctx, tx, userID, pieceID)
		if err != nil {
			return err
		}
		if piece == nil {
			return ErrPieceNotFound
		}

		if err := store.RemovePieceFromAllLists(ctx, tx, pieceID); err != nil {
			return err
		}

		// Count before deleting; the piece itself is included.
		siblings, err := store.CountPiecesByInfo(ctx, tx, piece.InfoID)
		if err != nil {
			return err
		}
		if err := store.DeletePiece(ctx, tx, pieceID); err != nil {
			return err
		}
		if siblings > 1 {
			return nil
		}

		info, err := store.GetInfo(ctx, tx, userID, piece.InfoID)
		if err != nil {
			return err
		}
		if err := store.DeleteInfo(ctx, tx, piece.InfoID); err != nil {
			return err
		}
		if info != nil {
			orphanedPicture = info.PictureID
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting piece: %w", err)
	}

	s.releasePicture(ctx, orphanedPicture)
	metrics.PiecesChangedTotal.WithLabelValues("deleted").Inc()
	slog.Info("piece deleted", "user", userID, "piece", pieceID, "info_deleted", orphanedPicture != "")
	return nil
}

// EditInfo applies a sparse patch to a clothing info. A replaced picture is
// deleted from the blob store on a best-effort basis.
func (s *Service) EditInfo(ctx context.Context, userID, infoID string, patch InfoPatch) (info *model.ClothingInfo, err error) {
	defer observe("edit_info", &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	var sp store.InfoPatch
	if patch.Brand != nil {
		brand := strings.TrimSpace(*patch.Brand)
		sp.Brand = &brand
	} else if patch.ForceBrand {
		empty := ""
		sp.Brand = &empty
	}
	if patch.Colors != nil {
		colors, err := parseColors(*patch.Colors)
		if err != nil {
			return nil, err
		}
		sp.Colors = &colors
	}
	if patch.Types != nil {
		types := cleanTypes(*patch.Types)
		sp.Types = &types
	}

	var oldPicture string
	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		current, err := store.GetInfo(ctx, tx, userID, infoID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrInfoNotFound
		}

		if patch.PictureID != nil && *patch.PictureID != current.PictureID {
			if _, err := requireImage(ctx, tx, userID, *patch.PictureID); err != nil {
				return err
			}
			sp.PictureID = patch.PictureID
			oldPicture = current.PictureID
		}

		if err := store.UpdateInfo(ctx, tx, infoID, sp); err != nil {
			return err
		}
		info, err = store.GetInfo(ctx, tx, userID, infoID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("editing item info: %w", err)
	}

	s.releasePicture(ctx, oldPicture)
	slog.Info("item info edited", "user", userID, "info", infoID, "picture_replaced", oldPicture != "")
	return info, nil
}

// ReplaceImage points every info of the user that shows oldID at newID
// instead and then releases the old picture. It returns the number of
// infos changed.
func (s *Service) ReplaceImage(ctx context.Context, userID, oldID, newID string) (n int64, err error) {
	defer observe("replace_image", &err)
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	if oldID == newID {
		return 0, NewValidationError("new_storage_id", "must differ from the old image")
	}

	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		old, err := store.GetUpload(ctx, tx, userID, oldID)
		if err != nil {
			return err
		}
		if old == nil {
			return ErrImageNotFound
		}
		if _, err := requireImage(ctx, tx, userID, newID); err != nil {
			return err
		}

		n, err = store.RepointPicture(ctx, tx, userID, oldID, newID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("replacing image: %w", err)
	}

	s.releasePicture(ctx, oldID)
	slog.Info("image replaced", "user", userID, "old", oldID, "new", newID, "infos", n)
	return n, nil
}
