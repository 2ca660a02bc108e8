package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cduffy/ironclub/store"
)

const ratelimitKeyPrefix = "ratelimit:"

// minCounterTTL is the floor for counter TTLs, so entries written near a
// window boundary never get a zero or negative TTL.
const minCounterTTL = time.Minute

// Policy describes a fixed-window rate limit.
type Policy struct {
	MaxRequests int
	Window      time.Duration
}

// Policies used by the protected endpoints.
var (
	LoginPolicy = Policy{MaxRequests: 5, Window: time.Minute}
	APIPolicy   = Policy{MaxRequests: 100, Window: time.Minute}
)

type counterRecord struct {
	Count   int       `json:"count"`
	ResetAt time.Time `json:"reset_at"`
}

// RateLimiter enforces fixed-window request counters per (client, endpoint),
// stored in the shared key-value store. The read-modify-write is not atomic:
// concurrent requests in the same window can both observe the pre-increment
// count and both pass, so the limiter has small constant-factor slack under
// heavy concurrency. That is accepted; the limiter is an abuse deterrent,
// not a hard quota.
type RateLimiter struct {
	store store.Store
	now   func() time.Time
}

// NewRateLimiter returns a RateLimiter over the given store.
func NewRateLimiter(st store.Store) *RateLimiter {
	return &RateLimiter{store: st, now: time.Now}
}

// Check records a request from clientID against endpoint and reports whether
// it exceeds the policy. Once the window's limit is reached the counter is
// not written back, so it never grows past MaxRequests+1 within a window.
// Store failures propagate as errors; callers fail closed.
func (l *RateLimiter) Check(ctx context.Context, clientID, endpoint string, p Policy) (limited bool, retryAfter time.Duration, err error) {
	key := ratelimitKeyPrefix + clientID + ":" + endpoint
	now := l.now()

	var rec counterRecord
	data, err := l.store.Get(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// First request in a window.
	case err != nil:
		return false, 0, fmt.Errorf("reading rate-limit counter: %w", err)
	default:
		if jsonErr := json.Unmarshal(data, &rec); jsonErr != nil {
			// Corrupt counter; start a fresh window.
			rec = counterRecord{}
		}
	}

	if rec.Count == 0 || now.After(rec.ResetAt) {
		fresh := counterRecord{Count: 1, ResetAt: now.Add(p.Window)}
		if err := l.put(ctx, key, fresh, p.Window); err != nil {
			return false, 0, err
		}
		return false, 0, nil
	}

	rec.Count++
	if rec.Count > p.MaxRequests {
		return true, rec.ResetAt.Sub(now), nil
	}

	ttl := rec.ResetAt.Sub(now)
	if ttl < minCounterTTL {
		ttl = minCounterTTL
	}
	if err := l.put(ctx, key, rec, ttl); err != nil {
		return false, 0, err
	}
	return false, 0, nil
}

func (l *RateLimiter) put(ctx context.Context, key string, rec counterRecord, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := l.store.Put(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("writing rate-limit counter: %w", err)
	}
	return nil
}
