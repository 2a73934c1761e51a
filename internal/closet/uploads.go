package closet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/erazemk/omara/internal/blob"
	"github.com/erazemk/omara/internal/imaging"
	"github.com/erazemk/omara/internal/metrics"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

// CreateUpload reserves a write-once slot for one image.
func (s *Service) CreateUpload(ctx context.Context, userID string) (u *model.Upload, err error) {
	defer observe("create_upload", &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	u, err = store.CreateUpload(ctx, s.DB, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("creating upload: %w", err)
	}
	return u, nil
}

// StoreUpload fills a pending slot with an image. The image is validated,
// downscaled and re-encoded before it reaches the blob store.
func (s *Service) StoreUpload(ctx context.Context, userID, uploadID string, r io.Reader) (u *model.Upload, err error) {
	defer observe("store_upload", &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	u, err = store.GetUpload(ctx, s.DB, userID, uploadID)
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}
	if u == nil {
		return nil, ErrImageNotFound
	}
	if u.Completed() {
		return nil, ErrUploadConsumed
	}

	img, err := imaging.Process(r)
	if err != nil {
		return nil, NewValidationError("image", err.Error())
	}

	_, err = s.Blobs.Put(ctx, uploadID, bytes.NewReader(img.Data), blob.PutOptions{
		ContentType: img.MIME,
		Metadata:    map[string]string{"owner": userID},
	})
	if errors.Is(err, blob.ErrExists) {
		return nil, ErrUploadConsumed
	}
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	ok, err := store.CompleteUpload(ctx, s.DB, uploadID, img.MIME, int64(len(img.Data)), s.now())
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}
	if !ok {
		return nil, ErrUploadConsumed
	}

	metrics.ImagesStoredTotal.Inc()
	slog.Info("image uploaded", "user", userID, "upload", uploadID, "bytes", len(img.Data),
		"width", img.Width, "height", img.Height)
	return store.GetUpload(ctx, s.DB, userID, uploadID)
}

// OpenImage streams a stored image of the user.
func (s *Service) OpenImage(ctx context.Context, userID, storageID string) (blob.Info, io.ReadCloser, error) {
	if err := requireUser(userID); err != nil {
		return blob.Info{}, nil, err
	}

	if _, err := requireImage(ctx, s.DB, userID, storageID); err != nil {
		if errors.Is(err, ErrUploadIncomplete) {
			return blob.Info{}, nil, ErrImageNotFound
		}
		return blob.Info{}, nil, err
	}

	info, rc, err := s.Blobs.Get(ctx, storageID)
	if errors.Is(err, blob.ErrNotFound) {
		return blob.Info{}, nil, ErrImageNotFound
	}
	if err != nil {
		return blob.Info{}, nil, fmt.Errorf("opening image: %w", err)
	}
	return info, rc, nil
}
