// Package auth implements the authentication and session subsystem:
// constant-time credential matching against a single shared secret,
// HMAC-signed session tokens, session lifecycle in a key-value store,
// create-or-touch user profiles, and a fixed-window rate limiter.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/awnumar/memguard"

	"github.com/cduffy/ironclub/store"
)

var (
	// ErrNotConfigured means no shared secret was provided at deployment.
	// This is an operator error, distinct from a wrong password.
	ErrNotConfigured = errors.New("authentication is not configured")
	// ErrInvalidCredentials means the supplied password does not match the
	// shared secret.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Config carries the deployment-time authentication settings. It is built
// once at process start and passed into NewGateway; no component reads the
// environment directly.
type Config struct {
	// Secret holds the shared password. Nil means auth is unconfigured.
	Secret           *memguard.Enclave
	RegistrationOpen bool
	SessionTTL       time.Duration
}

// NewConfig seals the shared secret into a memguard enclave. An empty
// secret leaves Config.Secret nil, which Gateway reports as
// ErrNotConfigured rather than treating every password as wrong.
func NewConfig(secret string, registrationOpen bool, sessionTTL time.Duration) Config {
	cfg := Config{RegistrationOpen: registrationOpen, SessionTTL: sessionTTL}
	if secret != "" {
		cfg.Secret = memguard.NewEnclave([]byte(secret))
	}
	return cfg
}

// ResultKind tags the outcome of resolving a request's authentication.
type ResultKind uint8

const (
	ResultAuthenticated ResultKind = iota
	ResultNoToken
	ResultMalformedToken
	ResultBadSignature
	ResultSessionNotFound
	ResultSessionExpired
)

func (k ResultKind) String() string {
	switch k {
	case ResultAuthenticated:
		return "authenticated"
	case ResultNoToken:
		return "no_token"
	case ResultMalformedToken:
		return "malformed_token"
	case ResultBadSignature:
		return "bad_signature"
	case ResultSessionNotFound:
		return "session_not_found"
	case ResultSessionExpired:
		return "session_expired"
	}
	return "unknown"
}

// Result is the tagged outcome of Resolve. Callers collapse every
// non-authenticated kind to HTTP 401, but logs keep the distinction.
type Result struct {
	Kind   ResultKind
	Handle string
}

// Authenticated reports whether the request carries a valid session.
func (r Result) Authenticated() bool {
	return r.Kind == ResultAuthenticated
}

// Gateway orchestrates login, logout, and request authentication over the
// credential matcher, token signer, session store, and user directory.
type Gateway struct {
	cfg      Config
	users    *UserDirectory
	sessions *SessionStore
	signer   *TokenSigner
}

// NewGateway builds a Gateway over the given store. The token-signing key
// is derived from the shared secret once, up front.
func NewGateway(cfg Config, st store.Store) (*Gateway, error) {
	g := &Gateway{
		cfg:      cfg,
		users:    NewUserDirectory(st),
		sessions: NewSessionStore(st, cfg.SessionTTL),
	}
	if cfg.Secret != nil {
		buf, err := cfg.Secret.Open()
		if err != nil {
			return nil, fmt.Errorf("opening secret enclave: %w", err)
		}
		signer, err := NewTokenSigner(buf.Bytes())
		buf.Destroy()
		if err != nil {
			return nil, err
		}
		g.signer = signer
	}
	return g, nil
}

// SessionTTL returns the configured session lifetime.
func (g *Gateway) SessionTTL() time.Duration {
	return g.cfg.SessionTTL
}

// Login authenticates the shared password, creates or touches the user for
// handle, writes a fresh session, and returns the signed bearer token.
// The handle must already be normalized and validated.
//
// Errors: ErrNotConfigured when no secret is deployed, ErrInvalidCredentials
// on password mismatch, ErrRegistrationClosed for unknown handles while
// registration is closed. Anything else is an infrastructure failure.
func (g *Gateway) Login(ctx context.Context, handle, password string) (User, string, bool, error) {
	if g.cfg.Secret == nil || g.signer == nil {
		return User{}, "", false, ErrNotConfigured
	}

	buf, err := g.cfg.Secret.Open()
	if err != nil {
		return User{}, "", false, fmt.Errorf("opening secret enclave: %w", err)
	}
	match := SecretEqual([]byte(password), buf.Bytes())
	buf.Destroy()
	if !match {
		return User{}, "", false, ErrInvalidCredentials
	}

	user, isNew, err := g.users.LoginOrRegister(ctx, handle, g.cfg.RegistrationOpen)
	if err != nil {
		return User{}, "", false, err
	}

	id, _, err := g.sessions.Create(ctx, handle)
	if err != nil {
		return User{}, "", false, err
	}
	token := EncodeToken(id, g.signer.Sign(id))
	return user, token, isNew, nil
}

// Logout deletes the server-side session named by token, so a stolen
// pre-logout token cannot outlive the logout. The signature is verified
// first; invalid tokens are ignored. Logout never fails from the caller's
// perspective.
func (g *Gateway) Logout(ctx context.Context, token string) {
	id, sig, ok := SplitToken(token)
	if !ok || g.signer == nil || !g.signer.Verify(id, sig) {
		return
	}
	_ = g.sessions.Delete(ctx, id)
}

// Resolve runs the authentication state machine for a request's bearer
// token. The signature is verified before any store lookup, so a forged
// token never touches the session store. Store failures return a non-nil
// error and must not be treated as "not authenticated".
func (g *Gateway) Resolve(ctx context.Context, token string) (Result, error) {
	if token == "" {
		return Result{Kind: ResultNoToken}, nil
	}
	id, sig, ok := SplitToken(token)
	if !ok {
		return Result{Kind: ResultMalformedToken}, nil
	}
	if g.signer == nil || !g.signer.Verify(id, sig) {
		return Result{Kind: ResultBadSignature}, nil
	}

	sess, err := g.sessions.Get(ctx, id)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return Result{Kind: ResultSessionNotFound}, nil
	case errors.Is(err, ErrSessionExpired):
		return Result{Kind: ResultSessionExpired}, nil
	case err != nil:
		return Result{}, err
	}
	return Result{Kind: ResultAuthenticated, Handle: sess.Handle}, nil
}
