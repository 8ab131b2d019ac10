package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// StatusFor maps an error code to its HTTP status.
func StatusFor(code apperror.Code) int {
	switch code {
	case apperror.CodeInvalidLocation,
		apperror.CodeAlreadyPunchedIn,
		apperror.CodeAlreadyPunchedOut,
		apperror.CodeNoPunchInFound,
		apperror.CodeOverlappingLeave,
		apperror.CodeInsufficientBalance,
		apperror.CodeInvalidDateRange,
		apperror.CodeInvalidTransition,
		apperror.CodeBadRequest:
		return http.StatusBadRequest
	case apperror.CodeValidation:
		return http.StatusUnprocessableEntity
	case apperror.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperror.CodeForbidden:
		return http.StatusForbidden
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	code := apperror.GetCode(err)
	if code == apperror.CodeInternal {
		slog.Error("unexpected error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	Fail(w, StatusFor(code), code, err.Error())
}
