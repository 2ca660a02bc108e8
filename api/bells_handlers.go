package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cduffy/ironclub/store"
)

const maxBellsBodySize = 16 << 10

func bellsKey(handle string) string {
	return "user-bells:" + handle
}

// GetBells handles GET /bells. A user with no saved weights gets an empty
// object rather than a 404.
func (a *API) GetBells(w http.ResponseWriter, r *http.Request) {
	handle, _ := HandleFromContext(r.Context())

	data, err := a.store.Get(r.Context(), bellsKey(handle))
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, UserBells{})
		return
	}
	if err != nil {
		writeInternalError(w, err)
		return
	}

	var bells UserBells
	if err := json.Unmarshal(data, &bells); err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bells)
}

// PutBells handles PUT /bells, replacing the user's full weight selection.
func (a *API) PutBells(w http.ResponseWriter, r *http.Request) {
	handle, _ := HandleFromContext(r.Context())
	bells, ok := decodeJSON[UserBells](w, r, maxBellsBodySize)
	if !ok {
		return
	}
	for _, weights := range bells {
		if weights.Moderate < 0 || weights.Heavy < 0 || weights.VeryHeavy < 0 {
			writeError(w, http.StatusBadRequest, "weights must be non-negative")
			return
		}
	}

	data, err := json.Marshal(bells)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	// Bell choices persist for the account's lifetime.
	if err := a.store.Put(r.Context(), bellsKey(handle), data, 0); err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
