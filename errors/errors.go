package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError is the error type returned by the stores, the services and the
// HTTP layer.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any *AppError with the same code, so
// errors.Is(err, errors.NotFound("user", "")) matches every user miss.
func (e *AppError) Is(target error) bool {
	var t *AppError
	return stderrors.As(target, &t) && t.Code == e.Code
}

// WithCause sets Cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets Details[key] and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError whose status and retryability come from code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: code.HTTPStatus(),
		Retryable:  code.Retryable(),
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// HasCode reports whether err wraps an AppError with code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NotFound reports a lookup with no match. id is omitted from Details when empty.
func NotFound(resource, id string) *AppError {
	e := Newf(ErrCodeNotFound, "The requested %s was not found.", resource).WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

// DuplicateEmail reports a registration for an email that already exists.
func DuplicateEmail(email string) *AppError {
	return Newf(ErrCodeDuplicateEmail, "User %s already exists", email).WithDetail("email", email)
}

// InvalidCriteria reports a lookup or update with no field, or with the
// unknown fields listed.
func InvalidCriteria(fields ...string) *AppError {
	if len(fields) == 0 {
		return New(ErrCodeInvalidCriteria, "No lookup criteria given.")
	}
	return Newf(ErrCodeInvalidCriteria, "Unknown field(s): %s", strings.Join(fields, ", ")).
		WithDetail("fields", fields)
}

// InvalidInput reports a request field that could not be parsed.
func InvalidInput(field, reason string) *AppError {
	e := Newf(ErrCodeInvalidInput, "Invalid input: %s", reason)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation reports failed form validation.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// MissingField reports an absent required field as "<field> missing".
func MissingField(field string) *AppError {
	return Newf(ErrCodeMissingField, "%s missing", field).WithDetail("field", field)
}

// MalformedHeader reports an Authorization header that could not be decoded.
func MalformedHeader(reason string) *AppError {
	return Newf(ErrCodeMalformedHeader, "Malformed authorization header: %s", reason)
}

// InvalidCredentials reports a wrong password or an unknown reset token.
func InvalidCredentials(reason string) *AppError {
	if reason == "" {
		reason = "Invalid credentials."
	}
	return New(ErrCodeInvalidCredentials, reason)
}

// Internal wraps an unexpected failure; cause is never shown to clients.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.").WithCause(cause)
}

// DatabaseError wraps a storage failure.
func DatabaseError(cause error) *AppError {
	return New(ErrCodeDatabaseError, "A database error occurred. Please try again.").WithCause(cause)
}

// ServiceUnavailable reports an unreachable backing service.
func ServiceUnavailable(service string) *AppError {
	return Newf(ErrCodeServiceUnavailable, "The %s is temporarily unavailable.", service).
		WithDetail("service", service)
}
