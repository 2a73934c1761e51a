package closet

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreUploadIsWriteOnce(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.CreateUpload(f.ctx, f.user)
	require.NoError(t, err)
	assert.False(t, u.Completed())

	stored, err := f.svc.StoreUpload(f.ctx, f.user, u.ID, bytes.NewReader(testPNG(t)))
	require.NoError(t, err)
	assert.True(t, stored.Completed())
	assert.Equal(t, "image/jpeg", stored.ContentType)
	assert.Positive(t, stored.Size)

	_, err = f.svc.StoreUpload(f.ctx, f.user, u.ID, bytes.NewReader(testPNG(t)))
	assert.ErrorIs(t, err, ErrUploadConsumed)
	assert.Equal(t, 1, f.blobs.Len())
}

func TestStoreUploadRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.CreateUpload(f.ctx, f.user)
	require.NoError(t, err)

	_, err = f.svc.StoreUpload(f.ctx, f.user, u.ID, strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.blobs.Len())

	// The slot is still usable after a rejected image.
	_, err = f.svc.StoreUpload(f.ctx, f.user, u.ID, bytes.NewReader(testPNG(t)))
	require.NoError(t, err)

	_, err = f.svc.StoreUpload(f.ctx, f.user, "nope", bytes.NewReader(testPNG(t)))
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestOpenImage(t *testing.T) {
	f := newFixture(t)
	id := f.image(t)

	info, rc, err := f.svc.OpenImage(f.ctx, f.user, id)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", info.ContentType)
	assert.Equal(t, int64(len(data)), info.Size)

	_, _, err = f.svc.OpenImage(f.ctx, "user-2", id)
	assert.ErrorIs(t, err, ErrImageNotFound)

	pending, err := f.svc.CreateUpload(f.ctx, f.user)
	require.NoError(t, err)
	_, _, err = f.svc.OpenImage(f.ctx, f.user, pending.ID)
	assert.ErrorIs(t, err, ErrImageNotFound)
}
