package errors

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError. Handlers map them to HTTP statuses.
const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInvalidDate           = "INVALID_DATE"
	CodeInvalidTime           = "INVALID_TIME"
	CodeInvalidSeats          = "INVALID_SEATS"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeCapacityExceeded      = "CAPACITY_EXCEEDED"
	CodeNotFound              = "NOT_FOUND"
	CodeDuplicateField        = "DUPLICATE_FIELD"
	CodeUserBlocked           = "USER_BLOCKED"
	CodeRepositoryUnavailable = "REPOSITORY_UNAVAILABLE"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeUnauthorized          = "UNAUTHORIZED"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized access")
)

type AppError struct {
	Code    string
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetail attaches a machine-readable detail and returns the same error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// CodeOf returns the AppError code found in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

func NewCapacityExceeded(available, requested int) *AppError {
	return NewAppError(
		CodeCapacityExceeded,
		fmt.Sprintf("Cannot confirm. Only %d seat(s) available, but reservation requires %d", available, requested),
		nil,
	).WithDetail("available", available).WithDetail("requested", requested)
}

func NewRepositoryUnavailable(op string, err error) *AppError {
	return NewAppError(CodeRepositoryUnavailable, fmt.Sprintf("Failed to %s", op), err)
}
