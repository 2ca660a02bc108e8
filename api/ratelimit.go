package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/cduffy/ironclub/auth"
)

// RateLimitMiddleware applies the general API policy per client IP. Limiter
// store failures fail closed with a 500; a broken limiter must not become an
// unlimited endpoint.
func (a *API) RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limited, retryAfter, err := a.limiter.Check(r.Context(), a.clientIP(r), "api", auth.APIPolicy)
		if err != nil {
			writeInternalError(w, err)
			return
		}
		if limited {
			writeRateLimited(w, retryAfter)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeRateLimited(w http.ResponseWriter, retryAfter time.Duration) {
	secs := retryAfterSeconds(retryAfter)
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
		Error:      "too many requests",
		RetryAfter: secs,
	})
}

// retryAfterSeconds rounds up so clients never retry before the window
// actually resets.
func retryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	return int(math.Ceil(d.Seconds()))
}
