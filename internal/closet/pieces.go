package closet

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/erazemk/omara/internal/metrics"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

// applyLog writes each piece's new state and appends the shared log to its
// history.
func applyLog(ctx context.Context, tx *sql.Tx, pieces []model.PieceView, logID string, mutate func(p *model.ClothingPiece)) error {
	for i := range pieces {
		p := &pieces[i].ClothingPiece
		mutate(p)
		if err := store.UpdatePiece(ctx, tx, p); err != nil {
			return err
		}
		if err := store.AppendHistory(ctx, tx, p.ID, logID); err != nil {
			return err
		}
	}
	return nil
}

// MovePieces moves pieces to a destination under one shared log. Pieces
// already there are skipped; if none remain nothing is written. It returns
// the number of pieces moved.
func (s *Service) MovePieces(ctx context.Context, userID string, pieceIDs []string, destinationID string) (moved int, err error) {
	defer observe("move_pieces", &err)
	if err := requireUser(userID); err != nil {
		return 0, err
	}

	now := s.now()
	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := requireLocation(ctx, tx, userID, destinationID); err != nil {
			return err
		}
		pieces, err := resolvePieces(ctx, tx, userID, pieceIDs)
		if err != nil {
			return err
		}

		var pending []model.PieceView
		for _, p := range pieces {
			if p.CurrentLocationID != destinationID {
				pending = append(pending, p)
			}
		}
		if len(pending) == 0 {
			return nil
		}

		log, err := store.CreateLog(ctx, tx, destinationID, "", false, now)
		if err != nil {
			return err
		}
		moved = len(pending)
		return applyLog(ctx, tx, pending, log.ID, func(p *model.ClothingPiece) {
			p.CurrentLocationID = destinationID
		})
	})
	if err != nil {
		return 0, fmt.Errorf("moving pieces: %w", err)
	}

	if moved > 0 {
		metrics.PiecesChangedTotal.WithLabelValues("moved").Add(float64(moved))
		slog.Info("pieces moved", "user", userID, "count", moved, "location", destinationID)
	}
	return moved, nil
}

// PackPieces packs pieces into a list at packLocationID, or at the list's
// packing location when packLocationID is empty. Packing clears a lost
// mark and does not touch list membership.
func (s *Service) PackPieces(ctx context.Context, userID string, pieceIDs []string, listID, packLocationID string) (err error) {
	defer observe("pack_pieces", &err)
	if err := requireUser(userID); err != nil {
		return err
	}
	if len(uniq(pieceIDs)) == 0 {
		return ErrEmptyOperation
	}

	now := s.now()
	var count int
	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		list, err := store.GetPackingList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if list == nil {
			return ErrListNotFound
		}

		locationID := packLocationID
		if locationID == "" {
			locationID = list.PackingLocationID
		}
		if locationID == "" {
			return ErrMissingPrerequisite
		}
		if err := requireLocation(ctx, tx, userID, locationID); err != nil {
			return err
		}

		pieces, err := resolvePieces(ctx, tx, userID, pieceIDs)
		if err != nil {
			return err
		}

		log, err := store.CreateLog(ctx, tx, locationID, list.ID, false, now)
		if err != nil {
			return err
		}
		count = len(pieces)
		return applyLog(ctx, tx, pieces, log.ID, func(p *model.ClothingPiece) {
			p.CurrentLocationID = locationID
			p.PackedIn = list.ID
			p.LostAt = nil
		})
	})
	if err != nil {
		return fmt.Errorf("packing pieces: %w", err)
	}

	metrics.PiecesChangedTotal.WithLabelValues("packed").Add(float64(count))
	slog.Info("pieces packed", "user", userID, "count", count, "list", listID)
	return nil
}

// UnpackPieces returns packed pieces to the list's packing location. It is
// a no-op when the list has no packing location. Membership is unchanged.
func (s *Service) UnpackPieces(ctx context.Context, userID string, pieceIDs []string, listID string) (err error) {
	defer observe("unpack_pieces", &err)
	if err := requireUser(userID); err != nil {
		return err
	}
	if len(uniq(pieceIDs)) == 0 {
		return ErrEmptyOperation
	}

	now := s.now()
	var count int
	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		list, err := store.GetPackingList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if list == nil {
			return ErrListNotFound
		}
		if list.PackingLocationID == "" {
			return nil
		}

		pieces, err := resolvePieces(ctx, tx, userID, pieceIDs)
		if err != nil {
			return err
		}

		log, err := store.CreateLog(ctx, tx, list.PackingLocationID, "", false, now)
		if err != nil {
			return err
		}
		count = len(pieces)
		return applyLog(ctx, tx, pieces, log.ID, func(p *model.ClothingPiece) {
			p.CurrentLocationID = list.PackingLocationID
			p.PackedIn = ""
		})
	})
	if err != nil {
		return fmt.Errorf("unpacking pieces: %w", err)
	}

	if count > 0 {
		metrics.PiecesChangedTotal.WithLabelValues("unpacked").Add(float64(count))
		slog.Info("pieces unpacked", "user", userID, "count", count, "list", listID)
	}
	return nil
}

// MarkLost marks a piece lost. Its current location stays as the last
// known one; it is no longer packed.
func (s *Service) MarkLost(ctx context.Context, userID, pieceID string) (err error) {
	defer observe("mark_lost", &err)
	if err := requireUser(userID); err != nil {
		return err
	}

	now := s.now()
	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		pieces, err := resolvePieces(ctx, tx, userID, []string{pieceID})
		if err != nil {
			return err
		}
		if pieces[0].Lost() {
			return ErrAlreadyLost
		}

		log, err := store.CreateLog(ctx, tx, "", "", true, now)
		if err != nil {
			return err
		}
		lostAt := log.CreatedAt
		return applyLog(ctx, tx, pieces, log.ID, func(p *model.ClothingPiece) {
			p.LostAt = &lostAt
			p.PackedIn = ""
		})
	})
	if err != nil {
		return fmt.Errorf("marking piece lost: %w", err)
	}

	metrics.PiecesChangedTotal.WithLabelValues("lost").Inc()
	slog.Info("piece marked lost", "user", userID, "piece", pieceID)
	return nil
}

// MarkFound clears a lost mark and places the piece at locationID.
func (s *Service) MarkFound(ctx context.Context, userID, pieceID, locationID string) (err error) {
	defer observe("mark_found", &err)
	if err := requireUser(userID); err != nil {
		return err
	}

	now := s.now()
	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		pieces, err := resolvePieces(ctx, tx, userID, []string{pieceID})
		if err != nil {
			return err
		}
		if !pieces[0].Lost() {
			return ErrNotLost
		}
		if err := requireLocation(ctx, tx, userID, locationID); err != nil {
			return err
		}

		log, err := store.CreateLog(ctx, tx, locationID, "", false, now)
		if err != nil {
			return err
		}
		return applyLog(ctx, tx, pieces, log.ID, func(p *model.ClothingPiece) {
			p.LostAt = nil
			p.CurrentLocationID = locationID
		})
	})
	if err != nil {
		return fmt.Errorf("marking piece found: %w", err)
	}

	metrics.PiecesChangedTotal.WithLabelValues("found").Inc()
	slog.Info("piece marked found", "user", userID, "piece", pieceID, "location", locationID)
	return nil
}

// LocationHistory returns the given logs, newest first, joined with their
// location and packing list. Logs not reachable from one of the user's
// pieces are left out.
func (s *Service) LocationHistory(ctx context.Context, userID string, logIDs []string) ([]model.LogEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	entries, err := store.ListLogEntries(ctx, s.DB, userID, uniq(logIDs))
	if err != nil {
		return nil, fmt.Errorf("listing location history: %w", err)
	}
	return entries, nil
}

// PieceHistory returns the full location history of one piece.
func (s *Service) PieceHistory(ctx context.Context, userID, pieceID string) ([]model.LogEntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	piece, err := store.GetPiece(ctx, s.DB, userID, pieceID)
	if err != nil {
		return nil, fmt.Errorf("listing piece history: %w", err)
	}
	if piece == nil {
		return nil, ErrPieceNotFound
	}
	return s.LocationHistory(ctx, userID, piece.LocationHistory)
}
