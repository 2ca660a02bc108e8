package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/cduffy/ironclub/auth"
)

// Audit event names. One event per security-relevant decision; handles are
// logged, passwords and tokens never are.
const (
	eventLoginSuccess       = "login_success"
	eventLoginFailure       = "login_failure"
	eventLoginRateLimited   = "login_rate_limited"
	eventRegistrationClosed = "registration_closed"
	eventLogout             = "logout"
	eventAuthRejected       = "auth_rejected"
)

// auditLogger emits structured security events. Each event carries a unique
// id so log pipelines can deduplicate across shipping retries.
type auditLogger struct {
	logger *slog.Logger
}

func newAuditLogger(logger *slog.Logger) *auditLogger {
	return &auditLogger{logger: logger}
}

func (l *auditLogger) event(r *http.Request, name string, attrs ...any) {
	base := []any{
		"event", name,
		"event_id", uuid.NewString(),
		"path", r.URL.Path,
	}
	l.logger.Info("audit", append(base, attrs...)...)
}

func (l *auditLogger) loginSuccess(r *http.Request, handle string, isNew bool) {
	l.event(r, eventLoginSuccess, "handle", handle, "new_user", isNew)
}

func (l *auditLogger) loginFailure(r *http.Request, handle string) {
	l.event(r, eventLoginFailure, "handle", handle)
}

func (l *auditLogger) loginRateLimited(r *http.Request, clientID string) {
	l.event(r, eventLoginRateLimited, "client", clientID)
}

func (l *auditLogger) registrationClosed(r *http.Request, handle string) {
	l.event(r, eventRegistrationClosed, "handle", handle)
}

func (l *auditLogger) logout(r *http.Request) {
	l.event(r, eventLogout)
}

func (l *auditLogger) authRejected(r *http.Request, result auth.Result) {
	l.event(r, eventAuthRejected, "reason", result.Kind.String())
}
