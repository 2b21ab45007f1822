package errors

import "net/http"

// ErrorCode is the machine-readable code carried by an AppError.
type ErrorCode string

const (
	// Credential store lookups.
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeDuplicateEmail  ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeInvalidCriteria ErrorCode = "INVALID_CRITERIA"

	// Request input.
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField    ErrorCode = "MISSING_FIELD"
	ErrCodeMalformedHeader ErrorCode = "MALFORMED_HEADER"

	// Authentication.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"

	// Infrastructure.
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError      ErrorCode = "DATABASE_ERROR"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

type codeInfo struct {
	status    int
	retryable bool
}

var codes = map[ErrorCode]codeInfo{
	ErrCodeNotFound:           {http.StatusNotFound, false},
	ErrCodeDuplicateEmail:     {http.StatusBadRequest, false},
	ErrCodeInvalidCriteria:    {http.StatusBadRequest, false},
	ErrCodeInvalidInput:       {http.StatusBadRequest, false},
	ErrCodeMissingField:       {http.StatusBadRequest, false},
	ErrCodeMalformedHeader:    {http.StatusUnauthorized, false},
	ErrCodeInvalidCredentials: {http.StatusUnauthorized, false},
	ErrCodeInternal:           {http.StatusInternalServerError, false},
	ErrCodeDatabaseError:      {http.StatusInternalServerError, true},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true},
}

// HTTPStatus returns the status code maps to; unknown codes map to 500.
func (c ErrorCode) HTTPStatus() int {
	if info, ok := codes[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Retryable reports whether retrying the same request may succeed.
func (c ErrorCode) Retryable() bool {
	return codes[c].retryable
}
