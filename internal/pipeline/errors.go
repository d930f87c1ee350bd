package pipeline

import (
	"errors"
	"net/http"
)

// Domain errors for pipeline operations.
var (
	ErrRunNotFound  = errors.New("run not found")
	ErrRunFailed    = errors.New("triage run failed")
	ErrInvalidRunID = errors.New("invalid run id")
)

// MapHTTPStatus maps pipeline domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrRunNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidRunID) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRunFailed) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
