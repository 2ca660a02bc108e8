package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cduffy/ironclub/store"
)

const userKeyPrefix = "user:"

// ErrRegistrationClosed is returned when an unknown handle attempts to log
// in while registration is closed.
var ErrRegistrationClosed = errors.New("registration is closed")

// User is a profile record keyed by handle. Users are never deleted.
type User struct {
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// UserDirectory creates and touches user profiles in the key-value store
// under "user:<handle>".
type UserDirectory struct {
	store store.Store
	now   func() time.Time
}

// NewUserDirectory returns a UserDirectory over the given store.
func NewUserDirectory(st store.Store) *UserDirectory {
	return &UserDirectory{store: st, now: time.Now}
}

// LoginOrRegister returns the user for handle, creating it on first login
// when registration is open. Existing users get their lastLogin touched;
// the write is a blind overwrite, which is acceptable because lastLogin is
// informational only. The handle is the store key, so repeated calls never
// create duplicates.
func (d *UserDirectory) LoginOrRegister(ctx context.Context, handle string, registrationOpen bool) (User, bool, error) {
	key := userKeyPrefix + handle
	now := d.now().UTC()

	data, err := d.store.Get(ctx, key)
	switch {
	case err == nil:
		var user User
		if jsonErr := json.Unmarshal(data, &user); jsonErr != nil {
			return User{}, false, fmt.Errorf("decoding user record: %w", jsonErr)
		}
		user.LastLogin = now
		if err := d.put(ctx, key, user); err != nil {
			return User{}, false, err
		}
		return user, false, nil
	case errors.Is(err, store.ErrNotFound):
		if !registrationOpen {
			return User{}, false, ErrRegistrationClosed
		}
		user := User{Handle: handle, CreatedAt: now, LastLogin: now}
		if err := d.put(ctx, key, user); err != nil {
			return User{}, false, err
		}
		return user, true, nil
	default:
		return User{}, false, fmt.Errorf("fetching user record: %w", err)
	}
}

// Get returns the user for handle, or store.ErrNotFound.
func (d *UserDirectory) Get(ctx context.Context, handle string) (User, error) {
	data, err := d.store.Get(ctx, userKeyPrefix+handle)
	if err != nil {
		return User{}, err
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return User{}, fmt.Errorf("decoding user record: %w", err)
	}
	return user, nil
}

func (d *UserDirectory) put(ctx context.Context, key string, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	// Users never expire.
	if err := d.store.Put(ctx, key, data, 0); err != nil {
		return fmt.Errorf("storing user record: %w", err)
	}
	return nil
}
