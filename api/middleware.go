package api

import (
	"context"
	"net"
	"net/http"
	"time"
)

// authCookieName is the session-token cookie set on login.
const authCookieName = "auth_token"

type contextKey string

const handleContextKey contextKey = "handle"

// HandleFromContext returns the authenticated handle placed by RequireAuth.
func HandleFromContext(ctx context.Context) (string, bool) {
	handle, ok := ctx.Value(handleContextKey).(string)
	return handle, ok
}

// RequireAuth resolves the request's session token and rejects anything that
// is not a live, signed session. Every authentication failure maps to the
// same 401 body; store failures map to 500, never 401.
func (a *API) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := a.gateway.Resolve(r.Context(), tokenFromRequest(r))
		if err != nil {
			writeInternalError(w, err)
			return
		}
		if !result.Authenticated() {
			a.audit.authRejected(r, result)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), handleContextKey, result.Handle)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFromRequest extracts the session token from the auth cookie, falling
// back to a bearer Authorization header for non-browser clients.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(authCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

func setAuthCookie(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// requestIsSecure reports whether the request arrived over TLS, directly or
// via a terminating proxy.
func requestIsSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

// clientIP returns the rate-limit bucket key for the request: the edge
// connecting-IP header when present, otherwise the socket peer address.
// "unknown" lumps unattributable requests into one shared bucket rather
// than letting them bypass limiting.
func (a *API) clientIP(r *http.Request) string {
	if ip := r.Header.Get(a.clientIPHeader); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return "unknown"
	}
	return host
}

// SecurityHeaders sets the standard hardening headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
