package api

import (
	"errors"
	"net/http"

	"github.com/cduffy/ironclub/auth"
)

const (
	minPasswordLen = 1
	maxPasswordLen = 100
)

// Login handles POST /login. It runs the stricter login rate limit, validates
// the request shape, and delegates credential checking and session creation
// to the gateway. On success the signed token is set as an HttpOnly cookie.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	clientID := a.clientIP(r)
	limited, retryAfter, err := a.limiter.Check(r.Context(), clientID, "login", auth.LoginPolicy)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if limited {
		a.audit.loginRateLimited(r, clientID)
		writeRateLimited(w, retryAfter)
		return
	}

	req, ok := decodeJSON[LoginRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}

	handle := auth.NormalizeHandle(req.Handle)
	if err := auth.ValidateHandle(handle); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Password) < minPasswordLen || len(req.Password) > maxPasswordLen {
		writeError(w, http.StatusBadRequest, "password must be between 1 and 100 characters")
		return
	}

	user, token, isNew, err := a.gateway.Login(r.Context(), handle, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		a.audit.loginFailure(r, handle)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case errors.Is(err, auth.ErrRegistrationClosed):
		a.audit.registrationClosed(r, handle)
		writeError(w, http.StatusForbidden, "registration is closed")
		return
	case errors.Is(err, auth.ErrNotConfigured):
		writeInternalError(w, err)
		return
	case err != nil:
		writeInternalError(w, err)
		return
	}

	setAuthCookie(w, r, token, a.gateway.SessionTTL())
	a.audit.loginSuccess(r, user.Handle, isNew)
	writeJSON(w, http.StatusOK, LoginResponse{
		Success:   true,
		Handle:    user.Handle,
		IsNewUser: isNew,
	})
}

// Logout handles POST /logout. The server-side session is deleted when the
// token is valid; either way the cookie is cleared and the response is 200,
// so logout is safe to call from any state.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	a.gateway.Logout(r.Context(), tokenFromRequest(r))
	clearAuthCookie(w, r)
	a.audit.logout(r)
	writeJSON(w, http.StatusOK, LogoutResponse{Success: true})
}

// CheckAuth handles GET /check-auth. Unlike the protected endpoints it
// answers 200 for unauthenticated callers; only store failures are errors.
func (a *API) CheckAuth(w http.ResponseWriter, r *http.Request) {
	result, err := a.gateway.Resolve(r.Context(), tokenFromRequest(r))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if !result.Authenticated() {
		writeJSON(w, http.StatusOK, CheckAuthResponse{IsAuthenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, CheckAuthResponse{
		IsAuthenticated: true,
		Handle:          result.Handle,
	})
}
