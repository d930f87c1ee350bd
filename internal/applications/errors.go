package applications

import (
	"errors"
	"net/http"
)

// Domain errors for application operations.
var (
	ErrNotFound          = errors.New("application not found")
	ErrDuplicate         = errors.New("application already exists")
	ErrInvalidRequest    = errors.New("invalid application request")
	ErrMissingIdentity   = errors.New("application requires company or position")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// MapHTTPStatus maps application domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrMissingIdentity) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidTransition) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
