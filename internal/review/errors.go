package review

import (
	"errors"
	"net/http"
)

// Domain errors for review queue operations.
var (
	ErrNotFound       = errors.New("review item not found")
	ErrDuplicate      = errors.New("review item already queued")
	ErrInvalidRequest = errors.New("invalid review request")
	ErrAcceptFailed   = errors.New("approved item could not be accepted")
	ErrAdviceFailed   = errors.New("decision aid unavailable")
)

// MapHTTPStatus maps review domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrAcceptFailed) {
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrAdviceFailed) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
