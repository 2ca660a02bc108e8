package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cduffy/ironclub/store"
)

// Tests run only when IRONCLUB_TEST_POSTGRES_DSN points at a database.
func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("IRONCLUB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("IRONCLUB_TEST_POSTGRES_DSN not set")
	}
	s, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	key := "test:" + t.Name()

	require.NoError(t, s.Put(ctx, key, []byte("v"), 0))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_Upsert(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	key := "test:" + t.Name()
	defer s.Delete(ctx, key)

	require.NoError(t, s.Put(ctx, key, []byte("v1"), 0))
	require.NoError(t, s.Put(ctx, key, []byte("v2"), time.Hour))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestStore_ExpiredRowInvisible(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	key := "test:" + t.Name()
	defer s.Delete(ctx, key)

	require.NoError(t, s.Put(ctx, key, []byte("v"), time.Millisecond))
	time.Sleep(50 * time.Millisecond)

	_, err := s.Get(ctx, key)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_ListByPrefix(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	prefix := "test:" + t.Name() + ":"
	defer func() {
		keys, _ := s.List(ctx, prefix)
		for _, k := range keys {
			s.Delete(ctx, k)
		}
	}()

	require.NoError(t, s.Put(ctx, prefix+"a", []byte("1"), 0))
	require.NoError(t, s.Put(ctx, prefix+"b", []byte("2"), 0))

	keys, err := s.List(ctx, prefix)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{prefix + "a", prefix + "b"}, keys)
}
