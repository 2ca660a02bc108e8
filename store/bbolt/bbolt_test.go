package bbolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cduffy/ironclub/store"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := tempStore(t)

	require.NoError(t, s.Put(ctx, "k", []byte("v"), 0))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Deleting again is not an error.
	require.NoError(t, s.Delete(ctx, "k"))
}

func TestStore_GetMissing(t *testing.T) {
	s := tempStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_ExpiredEntryIsRejected(t *testing.T) {
	ctx := context.Background()
	s := tempStore(t)

	// A tiny TTL that has already elapsed by read time.
	require.NoError(t, s.Put(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(10 * time.Millisecond)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_ListByPrefix(t *testing.T) {
	ctx := context.Background()
	s := tempStore(t)

	require.NoError(t, s.Put(ctx, "workout:frank:1-1", []byte("a"), 0))
	require.NoError(t, s.Put(ctx, "workout:frank:1-2", []byte("b"), 0))
	require.NoError(t, s.Put(ctx, "workout:other:1-1", []byte("c"), 0))

	keys, err := s.List(ctx, "workout:frank:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"workout:frank:1-1", "workout:frank:1-2"}, keys)
}

func TestStore_ListSkipsExpired(t *testing.T) {
	ctx := context.Background()
	s := tempStore(t)

	require.NoError(t, s.Put(ctx, "a:1", []byte("x"), time.Nanosecond))
	require.NoError(t, s.Put(ctx, "a:2", []byte("y"), 0))
	time.Sleep(10 * time.Millisecond)

	keys, err := s.List(ctx, "a:")
	require.NoError(t, err)
	assert.Equal(t, []string{"a:2"}, keys)
}

func TestStore_SweepRemovesExpired(t *testing.T) {
	ctx := context.Background()
	s := tempStore(t)

	require.NoError(t, s.Put(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(10 * time.Millisecond)

	s.sweepExpired()

	// The raw record is gone, not just filtered.
	keys, err := s.List(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "k", []byte("v"), 0))
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
