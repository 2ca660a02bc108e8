package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cduffy/ironclub/store"
)

const (
	activityKey        = "activity:recent"
	maxActivityEntries = 20
	activityTTL        = 30 * 24 * time.Hour
)

// GetActivity handles GET /activity, returning the shared recent-completion
// feed, newest first.
func (a *API) GetActivity(w http.ResponseWriter, r *http.Request) {
	data, err := a.store.Get(r.Context(), activityKey)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, ActivityResponse{Entries: []ActivityEntry{}})
		return
	}
	if err != nil {
		writeInternalError(w, err)
		return
	}

	var entries []ActivityEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ActivityResponse{Entries: entries})
}

// appendActivity prepends an entry to the shared feed, best effort. The
// read-modify-write is not atomic; a concurrent completion can drop an
// entry, which is acceptable for an informational feed. Failures are logged
// and never fail the completion that triggered them.
func (a *API) appendActivity(ctx context.Context, entry ActivityEntry) {
	var entries []ActivityEntry
	data, err := a.store.Get(ctx, activityKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		slog.Warn("reading activity feed", "error", err)
		return
	default:
		if jsonErr := json.Unmarshal(data, &entries); jsonErr != nil {
			entries = nil
		}
	}

	entries = append([]ActivityEntry{entry}, entries...)
	if len(entries) > maxActivityEntries {
		entries = entries[:maxActivityEntries]
	}

	out, err := json.Marshal(entries)
	if err != nil {
		slog.Warn("encoding activity feed", "error", err)
		return
	}
	if err := a.store.Put(ctx, activityKey, out, activityTTL); err != nil {
		slog.Warn("writing activity feed", "error", err)
	}
}
