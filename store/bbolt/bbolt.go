// Package bbolt provides a BBolt-backed implementation of store.Store.
//
// BBolt has no native TTL, so every value is wrapped in a small JSON
// envelope carrying its expiry. Expired entries are rejected lazily on
// read and removed by a periodic background sweep.
package bbolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/cduffy/ironclub/store"
)

var bucketName = []byte("kv")

const sweepInterval = 5 * time.Minute

type envelope struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (e envelope) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Store implements store.Store backed by a BBolt database.
type Store struct {
	db       *bbolt.DB
	stopOnce sync.Once
	stopCh   chan struct{}
}

var _ store.Store = (*Store)(nil)

// Open opens a BBolt database at the given path and starts the expiry sweeper.
func Open(path string, options *bbolt.Options) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv bucket: %w", err)
	}
	s := &Store{db: db, stopCh: make(chan struct{})}
	go s.sweepLoop()
	return s, nil
}

// Close stops the sweeper and closes the underlying database.
func (s *Store) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return s.db.Close()
}

func (s *Store) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	env := envelope{Value: value}
	if ttl > 0 {
		env.ExpiresAt = time.Now().Add(ttl)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), data)
	})
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var env envelope
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketName).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%s: %w", key, store.ErrNotFound)
		}
		return json.Unmarshal(data, &env)
	})
	if err != nil {
		return nil, err
	}
	if env.expired(time.Now()) {
		// Lazy expiry; the sweeper catches entries no one reads.
		_ = s.db.Update(func(tx *bbolt.Tx) error {
			return tx.Bucket(bucketName).Delete([]byte(key))
		})
		return nil, fmt.Errorf("%s: %w", key, store.ErrNotFound)
	}
	return env.Value, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}

func (s *Store) List(_ context.Context, prefix string) ([]string, error) {
	now := time.Now()
	var keys []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			var env envelope
			if err := json.Unmarshal(v, &env); err != nil {
				continue
			}
			if env.expired(now) {
				continue
			}
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}

func (s *Store) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweepExpired()
		}
	}
}

func (s *Store) sweepExpired() {
	now := time.Now()
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var env envelope
			if err := json.Unmarshal(v, &env); err != nil {
				// Corrupt entry, remove it.
				_ = c.Delete()
				continue
			}
			if env.expired(now) {
				_ = c.Delete()
			}
		}
		return nil
	})
}
