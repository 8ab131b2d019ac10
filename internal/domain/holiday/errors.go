package holiday

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

var (
	ErrHolidayNotFound   = apperror.New(apperror.CodeNotFound, "holiday not found")
	ErrHolidayDateExists = apperror.New(apperror.CodeConflict, "a holiday already exists on this date")
)
