package marketplace

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches API errors caused by a missing, expired or
// insufficient token.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is returned when the backend answers with a non-2xx status or
// with success set to false.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("api error (status %d, request %s): %s", e.StatusCode, e.RequestID, msg)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, msg)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}
