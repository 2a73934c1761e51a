package closet

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

func (s *Service) checkListFields(ctx context.Context, q store.DBTX, userID string, f *model.PackingListFields) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	if f.Name == "" {
		return NewValidationError("name", "name is required")
	}
	if f.PackingLocationID != "" {
		return requireLocation(ctx, q, userID, f.PackingLocationID)
	}
	return nil
}

// CreatePackingList creates an empty packing list.
func (s *Service) CreatePackingList(ctx context.Context, userID string, f model.PackingListFields) (list *model.PackingList, err error) {
	defer observe("create_packing_list", &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := s.checkListFields(ctx, tx, userID, &f); err != nil {
			return err
		}
		list, err = store.CreatePackingList(ctx, tx, userID, f, s.now())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating packing list: %w", err)
	}

	slog.Info("packing list created", "user", userID, "list", list.ID, "name", list.Name)
	return list, nil
}

// UpdatePackingList replaces all editable fields of a packing list.
func (s *Service) UpdatePackingList(ctx context.Context, userID, listID string, f model.PackingListFields) (list *model.PackingList, err error) {
	defer observe("update_packing_list", &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		current, err := store.GetPackingList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrListNotFound
		}
		if err := s.checkListFields(ctx, tx, userID, &f); err != nil {
			return err
		}
		if err := store.UpdatePackingList(ctx, tx, listID, f); err != nil {
			return err
		}
		list, err = store.GetPackingList(ctx, tx, userID, listID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("updating packing list: %w", err)
	}

	slog.Info("packing list updated", "user", userID, "list", listID)
	return list, nil
}

// ListPackingLists returns the user's packing lists, each joined with its
// member pieces.
func (s *Service) ListPackingLists(ctx context.Context, userID string) ([]model.PackingListView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	lists, err := store.ListPackingLists(ctx, s.DB, userID)
	if err != nil {
		return nil, fmt.Errorf("listing packing lists: %w", err)
	}
	views, err := s.joinPieces(ctx, userID, lists)
	if err != nil {
		return nil, fmt.Errorf("listing packing lists: %w", err)
	}
	return views, nil
}

// GetPackingList returns one packing list joined with its member pieces.
func (s *Service) GetPackingList(ctx context.Context, userID, listID string) (*model.PackingListView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	list, err := store.GetPackingList(ctx, s.DB, userID, listID)
	if err != nil {
		return nil, fmt.Errorf("getting packing list: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	views, err := s.joinPieces(ctx, userID, []model.PackingList{*list})
	if err != nil {
		return nil, fmt.Errorf("getting packing list: %w", err)
	}
	return &views[0], nil
}

// joinPieces attaches member pieces to lists, in item order and once each.
func (s *Service) joinPieces(ctx context.Context, userID string, lists []model.PackingList) ([]model.PackingListView, error) {
	var all []string
	for _, l := range lists {
		all = append(all, l.Items...)
	}
	pieces, err := store.ListPiecesByIDs(ctx, s.DB, userID, uniq(all))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.PieceView, len(pieces))
	for _, p := range pieces {
		byID[p.ID] = p
	}

	views := make([]model.PackingListView, len(lists))
	for i, l := range lists {
		views[i] = model.PackingListView{PackingList: l, Pieces: []model.PieceView{}}
		for _, id := range uniq(l.Items) {
			if p, ok := byID[id]; ok {
				views[i].Pieces = append(views[i].Pieces, p)
			}
		}
	}
	return views, nil
}

// AddItems appends pieces to a list's items. Duplicates are kept.
func (s *Service) AddItems(ctx context.Context, userID, listID string, pieceIDs []string) (list *model.PackingList, err error) {
	defer observe("add_list_items", &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		current, err := store.GetPackingList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrListNotFound
		}
		if current.Expired {
			return ErrListExpired
		}
		if _, err := resolvePieces(ctx, tx, userID, pieceIDs); err != nil {
			return err
		}

		if err := store.AppendListItems(ctx, tx, listID, pieceIDs); err != nil {
			return err
		}
		list, err = store.GetPackingList(ctx, tx, userID, listID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("adding packing list items: %w", err)
	}

	slog.Info("packing list items added", "user", userID, "list", listID, "count", len(pieceIDs))
	return list, nil
}

// RemoveItems removes every occurrence of the pieces from a list's items.
// Packed pieces stay packed.
func (s *Service) RemoveItems(ctx context.Context, userID string, pieceIDs []string, listID string) (list *model.PackingList, err error) {
	defer observe("remove_list_items", &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if len(uniq(pieceIDs)) == 0 {
		return nil, ErrEmptyOperation
	}

	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		current, err := store.GetPackingList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrListNotFound
		}

		if err := store.RemoveListItems(ctx, tx, listID, uniq(pieceIDs)); err != nil {
			return err
		}
		list, err = store.GetPackingList(ctx, tx, userID, listID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("removing packing list items: %w", err)
	}

	slog.Info("packing list items removed", "user", userID, "list", listID, "count", len(pieceIDs))
	return list, nil
}

// PackStatus reports how much of a list is packed. It returns nil, nil
// when the list does not exist.
func (s *Service) PackStatus(ctx context.Context, userID, listID string) (*model.PackStatus, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	list, err := store.GetPackingList(ctx, s.DB, userID, listID)
	if err != nil {
		return nil, fmt.Errorf("getting pack status: %w", err)
	}
	if list == nil {
		return nil, nil
	}

	packed, err := store.ListPiecesPackedIn(ctx, s.DB, userID, listID)
	if err != nil {
		return nil, fmt.Errorf("getting pack status: %w", err)
	}

	status := &model.PackStatus{
		PackedPieces: make([]model.ClothingPiece, len(packed)),
		TotalPieces:  list.Items,
	}
	for i := range packed {
		status.PackedPieces[i] = packed[i].ClothingPiece
	}
	status.PercentagePacked = model.PercentPacked(len(status.PackedPieces), len(status.TotalPieces))
	return status, nil
}

// ExpirePackingList clears a list's items and marks it expired for good.
func (s *Service) ExpirePackingList(ctx context.Context, userID, listID string) (list *model.PackingList, err error) {
	defer observe("expire_packing_list", &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		current, err := store.GetPackingList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrListNotFound
		}
		if err := store.ExpirePackingList(ctx, tx, listID); err != nil {
			return err
		}
		list, err = store.GetPackingList(ctx, tx, userID, listID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("expiring packing list: %w", err)
	}

	slog.Info("packing list expired", "user", userID, "list", listID)
	return list, nil
}
