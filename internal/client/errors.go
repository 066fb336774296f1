package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched by *APIError.
var (
	ErrBackpressure     = errors.New("server queue is full")
	ErrNotFound         = errors.New("result not found")
	ErrInvalidScorecard = errors.New("invalid scorecard")
)

// APIError is a non-success response from the rating API.
type APIError struct {
	Status  int      `json:"-"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Is matches the sentinel that corresponds to the response status.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBackpressure:
		return e.Status == http.StatusTooManyRequests
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrInvalidScorecard:
		return e.Code == "invalid_scorecard"
	}
	return false
}
