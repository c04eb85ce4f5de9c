// Copyright (c) 2026 Quillshelf. All rights reserved.

package storage_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillshelf/quillshelf/internal/platform/constants"
	"github.com/quillshelf/quillshelf/internal/platform/storage"
)

func newTestStore(t *testing.T) *storage.FileStore {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir(), "http://localhost:8080/static/", slog.Default())
	require.NoError(t, err)
	return store
}

/*
TestFileStore_SaveAndURL verifies the blob lands in the bucket directory and
the returned URL follows the <base>/<bucket>/<name> scheme.
*/
func TestFileStore_SaveAndURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	url, err := store.Save(ctx, constants.BucketCovers, "dune.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/static/covers/dune.jpg", url)

	data, err := os.ReadFile(filepath.Join(store.Root(), constants.BucketCovers, "dune.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

/*
TestFileStore_SaveRejectsTraversal verifies hostile object names cannot
escape the bucket directory.
*/
func TestFileStore_SaveRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, constants.BucketBooks, "..", strings.NewReader("x"))
	assert.Error(t, err)

	// Names with directory components are flattened to their base name.
	url, err := store.Save(ctx, constants.BucketBooks, "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/static/books/passwd", url)
}

/*
TestFileStore_RemoveIsIdempotent verifies removing a missing blob succeeds.
*/
func TestFileStore_RemoveIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, constants.BucketAvatars, "ada.png", strings.NewReader("png"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, constants.BucketAvatars, "ada.png"))
	require.NoError(t, store.Remove(ctx, constants.BucketAvatars, "ada.png"))
}

/*
TestFileStore_SaveOverwrites verifies a second save replaces the blob content.
*/
func TestFileStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, constants.BucketCovers, "cover.jpg", strings.NewReader("v1"))
	require.NoError(t, err)
	_, err = store.Save(ctx, constants.BucketCovers, "cover.jpg", strings.NewReader("v2"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(store.Root(), constants.BucketCovers, "cover.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}
