package dto

import (
	"errors"
	"net/http"

	"github.com/crm/backend/internal/domain/shared"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// DUPLICATE_EMAIL intentionally maps to 400, not 409: registration treats a
// taken email as invalid input.
var ErrorCodeHTTPStatus = map[string]int{
	"NOT_FOUND":           http.StatusNotFound,
	"ALREADY_EXISTS":      http.StatusConflict,
	"DUPLICATE_EMAIL":     http.StatusBadRequest,
	"INVALID_INPUT":       http.StatusBadRequest,
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":    http.StatusUnauthorized,
	"RATE_LIMITED":        http.StatusTooManyRequests,
	"INTERNAL_ERROR":      http.StatusInternalServerError,
}

// HTTPStatusForError resolves the HTTP status for an error. Domain errors
// map by code; validation-style codes default to 400; everything else is
// an internal error.
func HTTPStatusForError(err error) int {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if status, ok := ErrorCodeHTTPStatus[domainErr.Code]; ok {
			return status
		}
		// Unmapped domain errors are invalid input from entity validation
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// MessageForError returns the client-facing message for an error.
// Non-domain errors never leak internals to the client.
func MessageForError(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return shared.ErrInternal.Message
}
