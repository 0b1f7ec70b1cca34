// Package storetest holds the behaviour every store.Store must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/korpus/pkg/korpus/corpus"
	"github.com/cognicore/korpus/pkg/korpus/internalerr"
	"github.com/cognicore/korpus/pkg/korpus/store"
)

// Opener returns a fresh, empty store. The suite closes it.
type Opener func(t *testing.T) store.Store

// Run executes the conformance suite against stores produced by open.
func Run(t *testing.T, open Opener) {
	t.Run("SaveLoad", func(t *testing.T) { testSaveLoad(t, open(t)) })
	t.Run("Latest", func(t *testing.T) { testLatest(t, open(t)) })
	t.Run("List", func(t *testing.T) { testList(t, open(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, open(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, open(t)) })
	t.Run("Empty", func(t *testing.T) { testEmpty(t, open(t)) })
}

// Records builds a small two-document corpus for store tests.
func Records(t *testing.T) []corpus.TokenRecord {
	t.Helper()
	c := corpus.New(nil)
	_, err := c.Ingest("d1", "The quick brown fox jumps. It lands!")
	require.NoError(t, err)
	_, err = c.Ingest("d2", "Ещё один документ.")
	require.NoError(t, err)
	return c.Records()
}

func testSaveLoad(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()
	records := Records(t)

	info, err := s.SaveSnapshot(ctx, "first", records)
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "first", info.Name)
	assert.Equal(t, len(records), info.Records)
	assert.Equal(t, 2, info.Documents)

	loaded, err := s.LoadSnapshot(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	restored := corpus.New(nil)
	require.NoError(t, restored.Restore(loaded))
	assert.Equal(t, records, restored.Records())
}

func testLatest(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()
	records := Records(t)

	_, err := s.SaveSnapshot(ctx, "old", records[:3])
	require.NoError(t, err)
	newest, err := s.SaveSnapshot(ctx, "new", records)
	require.NoError(t, err)

	loaded, err := s.LoadSnapshot(ctx, "")
	require.NoError(t, err)
	assert.Len(t, loaded, newest.Records)
}

func testList(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()
	records := Records(t)

	var saved []store.SnapshotInfo
	for _, name := range []string{"a", "b", "c"} {
		info, err := s.SaveSnapshot(ctx, name, records)
		require.NoError(t, err)
		saved = append(saved, info)
	}

	list, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, info := range list {
		want := saved[len(saved)-1-i]
		assert.Equal(t, want.ID, info.ID)
		assert.Equal(t, want.Name, info.Name)
		assert.Equal(t, want.Records, info.Records)
		assert.Equal(t, want.Documents, info.Documents)
		assert.True(t, want.CreatedAt.Equal(info.CreatedAt), "created_at %v != %v", want.CreatedAt, info.CreatedAt)
	}
}

func testNotFound(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()

	_, err := s.LoadSnapshot(ctx, "")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)

	_, err = s.LoadSnapshot(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)

	list, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testDelete(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()

	info, err := s.SaveSnapshot(ctx, "gone", Records(t))
	require.NoError(t, err)
	require.NoError(t, s.DeleteSnapshot(ctx, info.ID))

	_, err = s.LoadSnapshot(ctx, info.ID)
	assert.ErrorIs(t, err, internalerr.ErrNotFound)

	err = s.DeleteSnapshot(ctx, info.ID)
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func testEmpty(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()

	info, err := s.SaveSnapshot(ctx, "empty", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, info.Records)

	loaded, err := s.LoadSnapshot(ctx, info.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
