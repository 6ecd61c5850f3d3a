package dto

import (
	"net/http"
	"strings"
)

// Error codes raised by the HTTP layer itself. Domain error codes pass
// through to clients verbatim; only the status mapping below interprets
// them.
const (
	CodeBadRequest = "BAD_REQUEST"
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Missing resources
	"NOT_FOUND":      http.StatusNotFound,
	"LINE_NOT_FOUND": http.StatusNotFound,

	// Conflicts with existing state
	"ALREADY_EXISTS":       http.StatusConflict,
	"ALREADY_CONFIRMED":    http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rules the request cannot satisfy as stated
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"EXCEEDS_RETURNABLE": http.StatusUnprocessableEntity,
	"BATCH_MISMATCH":     http.StatusUnprocessableEntity,

	// Malformed or contradictory input
	"DUPLICATE_LINE": http.StatusBadRequest,
	"NO_LINES":       http.StatusBadRequest,
	"INVALID_WINDOW": http.StatusBadRequest,
	CodeBadRequest:   http.StatusBadRequest,
	CodeValidation:   http.StatusBadRequest,
	CodeInternal:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// INVALID_* codes not listed explicitly are field-level input problems
// and map to 400. Anything else unknown maps to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
