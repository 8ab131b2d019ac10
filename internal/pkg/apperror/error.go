package apperror

import "errors"

type Code string

const (
	CodeInvalidLocation     Code = "INVALID_LOCATION"
	CodeAlreadyPunchedIn    Code = "ALREADY_PUNCHED_IN"
	CodeAlreadyPunchedOut   Code = "ALREADY_PUNCHED_OUT"
	CodeNoPunchInFound      Code = "NO_PUNCH_IN_FOUND"
	CodeOverlappingLeave    Code = "OVERLAPPING_LEAVE"
	CodeInsufficientBalance Code = "INSUFFICIENT_BALANCE"
	CodeInvalidDateRange    Code = "INVALID_DATE_RANGE"
	CodeInvalidTransition   Code = "INVALID_TRANSITION"
	CodeBadRequest          Code = "BAD_REQUEST"
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeForbidden           Code = "FORBIDDEN"
	CodeNotFound            Code = "NOT_FOUND"
	CodeConflict            Code = "CONFLICT"
	CodeInternal            Code = "INTERNAL_SERVER_ERROR"
)

// Error is an expected failure with a stable code. Domain packages declare
// their sentinels with New and compare them with errors.Is.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap returns an error carrying sentinel's code with a more specific message.
// errors.Is(result, sentinel) stays true.
func Wrap(sentinel *Error, message string) *Error {
	return &Error{
		Code:    sentinel.Code,
		Message: message,
		Err:     sentinel,
	}
}

func GetCode(err error) Code {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeInternal
}
