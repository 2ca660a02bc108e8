package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cduffy/ironclub/store"
	"github.com/cduffy/ironclub/store/memory"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	ctx := context.Background()
	l := NewRateLimiter(memory.New())
	p := Policy{MaxRequests: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		limited, _, err := l.Check(ctx, "1.2.3.4", "login", p)
		require.NoError(t, err)
		assert.False(t, limited, "request %d should pass", i+1)
	}
}

func TestRateLimiter_BlocksPastLimit(t *testing.T) {
	ctx := context.Background()
	l := NewRateLimiter(memory.New())
	p := Policy{MaxRequests: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		_, _, err := l.Check(ctx, "1.2.3.4", "login", p)
		require.NoError(t, err)
	}

	limited, retryAfter, err := l.Check(ctx, "1.2.3.4", "login", p)
	require.NoError(t, err)
	require.True(t, limited)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestRateLimiter_CounterNeverGrowsPastLimit(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := NewRateLimiter(st)
	p := Policy{MaxRequests: 2, Window: time.Minute}

	for i := 0; i < 10; i++ {
		_, _, err := l.Check(ctx, "1.2.3.4", "login", p)
		require.NoError(t, err)
	}

	data, err := st.Get(ctx, "ratelimit:1.2.3.4:login")
	require.NoError(t, err)
	var rec counterRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.LessOrEqual(t, rec.Count, p.MaxRequests, "blocked requests must not be written back")
}

func TestRateLimiter_WindowExpiryResets(t *testing.T) {
	ctx := context.Background()
	l := NewRateLimiter(memory.New())
	p := Policy{MaxRequests: 1, Window: time.Minute}

	base := time.Now()
	l.now = func() time.Time { return base }

	_, _, err := l.Check(ctx, "1.2.3.4", "login", p)
	require.NoError(t, err)
	limited, _, err := l.Check(ctx, "1.2.3.4", "login", p)
	require.NoError(t, err)
	require.True(t, limited)

	// Past the window boundary a fresh counter starts.
	l.now = func() time.Time { return base.Add(time.Minute + time.Second) }
	limited, _, err = l.Check(ctx, "1.2.3.4", "login", p)
	require.NoError(t, err)
	assert.False(t, limited)
}

func TestRateLimiter_IsolatesClientsAndEndpoints(t *testing.T) {
	ctx := context.Background()
	l := NewRateLimiter(memory.New())
	p := Policy{MaxRequests: 1, Window: time.Minute}

	_, _, err := l.Check(ctx, "1.2.3.4", "login", p)
	require.NoError(t, err)
	limited, _, err := l.Check(ctx, "1.2.3.4", "login", p)
	require.NoError(t, err)
	require.True(t, limited)

	// Different client, same endpoint.
	limited, _, err = l.Check(ctx, "5.6.7.8", "login", p)
	require.NoError(t, err)
	assert.False(t, limited)

	// Same client, different endpoint.
	limited, _, err = l.Check(ctx, "1.2.3.4", "api", p)
	require.NoError(t, err)
	assert.False(t, limited)
}

func TestRateLimiter_CorruptCounterStartsFresh(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Put(ctx, "ratelimit:1.2.3.4:login", []byte("not json"), time.Minute))

	l := NewRateLimiter(st)
	limited, _, err := l.Check(ctx, "1.2.3.4", "login", Policy{MaxRequests: 1, Window: time.Minute})
	require.NoError(t, err)
	assert.False(t, limited)
}

func TestRateLimiter_StoreFailurePropagates(t *testing.T) {
	l := NewRateLimiter(failingStore{})

	_, _, err := l.Check(context.Background(), "1.2.3.4", "login", LoginPolicy)
	assert.Error(t, err)
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, []byte, time.Duration) error {
	return assert.AnError
}
func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, assert.AnError }
func (failingStore) Delete(context.Context, string) error        { return assert.AnError }
func (failingStore) List(context.Context, string) ([]string, error) {
	return nil, assert.AnError
}

var _ store.Store = failingStore{}
