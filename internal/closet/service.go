// Package closet implements the domain operations of the closet tracker:
// cataloging clothing, tracking where each piece is, packing lists and
// lost/found bookkeeping. Every operation is scoped to one user.
package closet

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/omara/internal/blob"
	"github.com/erazemk/omara/internal/metrics"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

// ImagePathPrefix is where the API serves images for blob drivers that
// cannot presign URLs.
const ImagePathPrefix = "/api/images/"

// Service runs domain operations against the record store and blob store.
type Service struct {
	DB    *sql.DB
	Blobs blob.Store

	// ImageURLExpiry bounds presigned image URLs.
	ImageURLExpiry time.Duration

	// Now returns the current time. Tests replace it.
	Now func() time.Time
}

// New returns a Service with default settings.
func New(db *sql.DB, blobs blob.Store) *Service {
	return &Service{
		DB:             db,
		Blobs:          blobs,
		ImageURLExpiry: 15 * time.Minute,
		Now:            time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrUnauthenticated
	}
	return nil
}

// observe counts an operation outcome. Use with a named error return:
// defer observe("op", &err).
func observe(op string, err *error) {
	if *err != nil {
		metrics.OperationErrorsTotal.WithLabelValues(op).Inc()
		return
	}
	metrics.OperationsTotal.WithLabelValues(op).Inc()
}

// uniq returns ids without duplicates or empty strings, keeping first
// occurrences in order.
func uniq(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// resolvePieces loads the owned pieces with the given ids. Any id that does
// not resolve fails the whole call.
func resolvePieces(ctx context.Context, q store.DBTX, userID string, ids []string) ([]model.PieceView, error) {
	ids = uniq(ids)
	pieces, err := store.ListPiecesByIDs(ctx, q, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(pieces) != len(ids) {
		return nil, ErrPieceNotFound
	}
	return pieces, nil
}

// requireLocation checks that a location exists and belongs to the user.
func requireLocation(ctx context.Context, q store.DBTX, userID, id string) error {
	if id == "" {
		return ErrLocationNotFound
	}
	loc, err := store.GetLocation(ctx, q, userID, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return ErrLocationNotFound
	}
	return nil
}

// requireImage checks that a storage id is a completed upload of the user.
func requireImage(ctx context.Context, q store.DBTX, userID, id string) (*model.Upload, error) {
	if id == "" {
		return nil, ErrImageNotFound
	}
	u, err := store.GetUpload(ctx, q, userID, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrImageNotFound
	}
	if !u.Completed() {
		return nil, ErrUploadIncomplete
	}
	return u, nil
}

func parseColors(in []string) ([]model.Color, error) {
	colors := make([]model.Color, 0, len(in))
	for _, c := range in {
		color, err := model.ParseColor(c)
		if err != nil {
			return nil, NewValidationError("colors", err.Error())
		}
		colors = append(colors, color)
	}
	return colors, nil
}

func cleanTypes(in []string) []string {
	types := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// imageURL returns a URL the client can fetch a picture from.
func (s *Service) imageURL(ctx context.Context, pictureID string) string {
	url, err := s.Blobs.PresignURL(ctx, pictureID, blob.SignedURLOptions{Expiry: s.ImageURLExpiry})
	if err == nil {
		return url
	}
	if !errors.Is(err, blob.ErrUnsupported) {
		slog.Warn("presigning image failed", "picture", pictureID, "error", err)
	}
	return ImagePathPrefix + pictureID
}

// releasePicture deletes a picture blob and its upload slot once no info
// refers to it any more. Failures are logged, never returned.
func (s *Service) releasePicture(ctx context.Context, pictureID string) {
	if pictureID == "" {
		return
	}

	refs, err := store.CountInfosWithPicture(ctx, s.DB, pictureID)
	if err != nil {
		metrics.BlobCleanupFailuresTotal.Inc()
		slog.Warn("checking picture references failed", "picture", pictureID, "error", err)
		return
	}
	if refs > 0 {
		return
	}

	if _, err := s.Blobs.Delete(ctx, pictureID); err != nil {
		metrics.BlobCleanupFailuresTotal.Inc()
		slog.Warn("deleting picture blob failed", "picture", pictureID, "error", err)
		return
	}
	if err := store.DeleteUpload(ctx, s.DB, pictureID); err != nil {
		slog.Warn("deleting upload record failed", "picture", pictureID, "error", err)
	}
}
