package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStore_RoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := DocumentKey(uuid.New(), "passport", "pdf")
	require.NoError(t, store.Upload(ctx, key, "application/pdf", strings.NewReader("pdf-bytes")))

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Download(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStore_RejectsTraversal(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Upload(ctx, "../outside.txt", "text/plain", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = store.Download(ctx, "/etc/passwd")
	assert.Error(t, err)
}

func TestFSStore_DeleteMissingIsNoop(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete(context.Background(), "nope/missing.png"))
}
