package api

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when a 401 could not be recovered by the
// refresh protocol. By the time a caller sees it the session store has
// already been cleared.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx business response. It never triggers logout or a
// retry; callers handle it locally.
type APIError struct {
	StatusCode int
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}
