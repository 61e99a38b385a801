package errors

import "fmt"

type ErrorCode string

const (
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"

	// Scheduling and moderation workflow
	ErrDuplicateClaim          ErrorCode = "DUPLICATE_CLAIM"
	ErrScheduleConflict        ErrorCode = "SCHEDULE_CONFLICT"
	ErrAlreadyTerminal         ErrorCode = "ALREADY_TERMINAL"
	ErrInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrValidation              ErrorCode = "VALIDATION_ERROR"
	ErrPersistence             ErrorCode = "PERSISTENCE_ERROR"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
	Details any       `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails attaches a payload the caller needs to act on the error,
// such as the list of conflicting requests.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewValidationError(message string) *AppError {
	return NewAppError(ErrValidation, message, nil)
}

func NewPersistenceError(message string, err error) *AppError {
	return NewAppError(ErrPersistence, message, err)
}

// Is reports whether err is an *AppError carrying code.
func Is(err error, code ErrorCode) bool {
	ae, ok := err.(*AppError)
	return ok && ae != nil && ae.Code == code
}
