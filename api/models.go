package api

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// LoginResponse is returned from POST /login.
type LoginResponse struct {
	Success   bool   `json:"success"`
	Handle    string `json:"handle"`
	IsNewUser bool   `json:"isNewUser"`
}

// LogoutResponse is returned from POST /logout.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// CheckAuthResponse is returned from GET /check-auth.
type CheckAuthResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Handle          string `json:"handle,omitempty"`
}

// MarkCompleteRequest is the JSON body for POST /mark-complete.
type MarkCompleteRequest struct {
	Week  int    `json:"week"`
	Day   int    `json:"day"`
	Notes string `json:"notes,omitempty"`
}

// UnmarkRequest is the JSON body for POST /unmark.
type UnmarkRequest struct {
	Week int `json:"week"`
	Day  int `json:"day"`
}

// Completion records a finished workout day.
type Completion struct {
	CompletedAt string `json:"completedAt"`
	Notes       string `json:"notes,omitempty"`
}

// MarkCompleteResponse is returned from POST /mark-complete.
type MarkCompleteResponse struct {
	Success    bool       `json:"success"`
	Completion Completion `json:"completion"`
}

// SuccessResponse is returned from mutations with no other payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// BellWeights holds a user's weights for one exercise, by intensity.
type BellWeights struct {
	Moderate  float64 `json:"moderate"`
	Heavy     float64 `json:"heavy"`
	VeryHeavy float64 `json:"very_heavy"`
}

// UserBells maps exercise ids to the user's chosen weights.
type UserBells map[string]BellWeights

// ActivityEntry is one item in the shared recent-activity feed.
type ActivityEntry struct {
	Handle      string `json:"handle"`
	Week        int    `json:"week"`
	Day         int    `json:"day"`
	CompletedAt string `json:"completedAt"`
}

// ActivityResponse is returned from GET /activity.
type ActivityResponse struct {
	Entries []ActivityEntry `json:"entries"`
}

// ErrorResponse is returned for all error cases.
type ErrorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}
