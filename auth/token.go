package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// tokenKeyInfo is the HKDF info string binding derived keys to this purpose.
// Changing it invalidates every outstanding token.
const tokenKeyInfo = "ironclub/token/v1"

// TokenSigner signs and verifies session identifiers with HMAC-SHA256.
// The signing key is derived from the shared secret via HKDF so the raw
// password never doubles as an HMAC key.
type TokenSigner struct {
	key []byte
}

// NewTokenSigner derives a 32-byte signing key from the shared secret.
func NewTokenSigner(secret []byte) (*TokenSigner, error) {
	r := hkdf.New(sha256.New, secret, nil, []byte(tokenKeyInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving token signing key: %w", err)
	}
	return &TokenSigner{key: key}, nil
}

// Sign computes the HMAC-SHA256 signature of sessionID, base64url encoded.
func (s *TokenSigner) Sign(sessionID string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(sessionID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the valid signature for sessionID.
// Malformed signatures verify false; Verify never panics.
func (s *TokenSigner) Verify(sessionID, signature string) bool {
	want := s.Sign(sessionID)
	return SecretEqual([]byte(signature), []byte(want))
}

// EncodeToken combines a session id and its signature into the bearer token
// carried in the cookie.
func EncodeToken(sessionID, signature string) string {
	return sessionID + "." + signature
}

// SplitToken splits a bearer token into its session id and signature.
// Tokens without a separator or with an empty half are malformed.
func SplitToken(token string) (sessionID, signature string, ok bool) {
	sessionID, signature, found := strings.Cut(token, ".")
	if !found || sessionID == "" || signature == "" {
		return "", "", false
	}
	return sessionID, signature, true
}
