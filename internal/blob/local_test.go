package blob

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLocalPutGetRoundTrip(t *testing.T) {
	store, err := NewLocal(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)

	id := uuid.New()
	payload := []byte("hello blob store")

	n, err := store.Put(context.Background(), id, bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), n)

	r, size, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, int64(len(payload)), size)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestLocalGetMissingReturnsNotFound(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDeleteIsIdempotent(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	id := uuid.New()
	payload := []byte("to be deleted")
	_, err = store.Put(context.Background(), id, bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), id))
	require.NoError(t, store.Delete(context.Background(), id), "second delete must be a no-op")

	_, _, err = store.Get(context.Background(), id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalPutFailureLeavesNoObject(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(root)
	require.NoError(t, err)

	id := uuid.New()
	broken := io.MultiReader(strings.NewReader("partial"), &failingReader{})

	_, err = store.Put(context.Background(), id, broken, -1)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(root, id.String()))
	require.True(t, os.IsNotExist(statErr), "no final object may exist after a failed write")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Empty(t, entries, "no temp residue may remain after a failed write")
}

func TestLocalPutRejectsShortStream(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), uuid.New(), strings.NewReader("abc"), 10)
	require.Error(t, err)
}

type failingReader struct{}

func (*failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
