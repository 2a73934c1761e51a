package fs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/omara/internal/blob"
)

func TestStore_PutGetDelete(t *testing.T) {
	root := t.TempDir()
	store, err := New(root)
	require.NoError(t, err)
	ctx := context.Background()

	info, err := store.Put(ctx, "abc", bytes.NewReader([]byte("hello")), blob.PutOptions{ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.NotEmpty(t, info.ETag)

	_, err = os.Stat(filepath.Join(root, "abc.meta"))
	require.NoError(t, err)

	got, rc, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "image/jpeg", got.ContentType)

	head, err := store.Head(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, info.ETag, head.ETag)

	ok, err := store.Delete(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Delete(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, blob.ErrNotFound)
	_, err = store.Head(ctx, "abc")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestStore_WriteOnce(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "k", bytes.NewReader([]byte("a")), blob.PutOptions{})
	require.NoError(t, err)
	_, err = store.Put(ctx, "k", bytes.NewReader([]byte("b")), blob.PutOptions{})
	assert.ErrorIs(t, err, blob.ErrExists)
}

func TestStore_RejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "/abs", "a/../../b"} {
		_, err := store.Put(ctx, key, bytes.NewReader(nil), blob.PutOptions{})
		assert.Error(t, err, "key %q", key)
	}
}

func TestStore_NoPresign(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.PresignURL(context.Background(), "k", blob.SignedURLOptions{})
	assert.ErrorIs(t, err, blob.ErrUnsupported)
	assert.Equal(t, blob.DriverFilesystem, store.Driver())
}
