package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cduffy/ironclub/store"
)

const (
	minWeek = 1
	maxWeek = 16
	minDay  = 1
	maxDay  = 7

	maxNotesLen = 500

	// Completions outlive the program by a wide margin and then age out.
	completionTTL = 180 * 24 * time.Hour
)

func workoutKey(handle string, week, day int) string {
	return fmt.Sprintf("workout:%s:%d-%d", handle, week, day)
}

func validateWeekDay(week, day int) error {
	if week < minWeek || week > maxWeek {
		return fmt.Errorf("week must be between %d and %d", minWeek, maxWeek)
	}
	if day < minDay || day > maxDay {
		return fmt.Errorf("day must be between %d and %d", minDay, maxDay)
	}
	return nil
}

// GetCompletions handles GET /completions. The response maps "week-day" keys
// to completion records for the authenticated user.
func (a *API) GetCompletions(w http.ResponseWriter, r *http.Request) {
	handle, _ := HandleFromContext(r.Context())
	prefix := fmt.Sprintf("workout:%s:", handle)

	keys, err := a.store.List(r.Context(), prefix)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	completions := make(map[string]Completion, len(keys))
	for _, key := range keys {
		data, err := a.store.Get(r.Context(), key)
		if errors.Is(err, store.ErrNotFound) {
			// Expired between List and Get.
			continue
		}
		if err != nil {
			writeInternalError(w, err)
			return
		}
		var c Completion
		if err := json.Unmarshal(data, &c); err != nil {
			continue
		}
		completions[strings.TrimPrefix(key, prefix)] = c
	}
	writeJSON(w, http.StatusOK, map[string]any{"completions": completions})
}

// MarkComplete handles POST /mark-complete.
func (a *API) MarkComplete(w http.ResponseWriter, r *http.Request) {
	handle, _ := HandleFromContext(r.Context())
	req, ok := decodeJSON[MarkCompleteRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}
	if err := validateWeekDay(req.Week, req.Day); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Notes) > maxNotesLen {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("notes must be at most %d characters", maxNotesLen))
		return
	}

	completion := Completion{
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
		Notes:       req.Notes,
	}
	data, err := json.Marshal(completion)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if err := a.store.Put(r.Context(), workoutKey(handle, req.Week, req.Day), data, completionTTL); err != nil {
		writeInternalError(w, err)
		return
	}

	a.appendActivity(r.Context(), ActivityEntry{
		Handle:      handle,
		Week:        req.Week,
		Day:         req.Day,
		CompletedAt: completion.CompletedAt,
	})

	writeJSON(w, http.StatusOK, MarkCompleteResponse{Success: true, Completion: completion})
}

// Unmark handles POST /unmark. Deleting an absent completion succeeds.
func (a *API) Unmark(w http.ResponseWriter, r *http.Request) {
	handle, _ := HandleFromContext(r.Context())
	req, ok := decodeJSON[UnmarkRequest](w, r, maxAuthBodySize)
	if !ok {
		return
	}
	if err := validateWeekDay(req.Week, req.Day); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.store.Delete(r.Context(), workoutKey(handle, req.Week, req.Day)); err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
