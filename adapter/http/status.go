package http

import (
	"net/http"

	"github.com/viant/vacation/fault"
)

// StatusOf maps an error kind to an HTTP status code.
func StatusOf(kind fault.Kind) int {
	switch kind {
	case fault.NotFound:
		return http.StatusNotFound
	case fault.Forbidden:
		return http.StatusForbidden
	case fault.InvalidTransition:
		return http.StatusConflict
	case fault.Validation:
		return http.StatusBadRequest
	case fault.ThresholdExceeded:
		return http.StatusUnprocessableEntity
	case fault.Conflict:
		return http.StatusConflict
	case fault.Unauthenticated:
		return http.StatusUnauthorized
	case fault.Internal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the body of a failed call.
type ErrorResponse struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Peak    *float64 `json:"peak,omitempty"`
	// Retryable is set for conflicts that should be retried on fresh state.
	Retryable bool `json:"retryable,omitempty"`
}

func errorResponse(err error) (int, *ErrorResponse) {
	kind := fault.KindOf(err)
	ret := &ErrorResponse{Kind: kind.String(), Message: err.Error(), Retryable: kind.Retryable()}
	if kind == fault.Internal {
		ret.Message = "internal error"
	}
	if peak, ok := fault.PeakOf(err); ok {
		ret.Peak = &peak
	}
	return StatusOf(kind), ret
}
