// Package httputil centralizes JSON response envelopes so every handler
// renders errors and payloads the same way.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "civitas/pkg/domain-errors"
)

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Internal errors omit the description so infrastructure detail never
// leaks to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	var de *dErrors.Error
	if code != dErrors.CodeInternal && errors.As(err, &de) {
		body["error_description"] = de.Message
	}
	WriteJSON(w, ToHTTPStatus(code), body)
}

// ToHTTPStatus maps a domain error code onto an HTTP status.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeUnauthorized:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeDuplicate, dErrors.CodeCapacityExceeded, dErrors.CodeInvalidState:
		return http.StatusConflict
	case dErrors.CodeValidation, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeArithmetic:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
