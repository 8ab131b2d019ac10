package attendance

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

// Attendance domain errors
var (
	// Punch state machine
	ErrInvalidLocation   = apperror.New(apperror.CodeInvalidLocation, "location is outside the allowed office radius")
	ErrAlreadyPunchedIn  = apperror.New(apperror.CodeAlreadyPunchedIn, "you have already punched in today")
	ErrAlreadyPunchedOut = apperror.New(apperror.CodeAlreadyPunchedOut, "you have already punched out today")
	ErrNoPunchInFound    = apperror.New(apperror.CodeNoPunchInFound, "no punch-in found for today")
	ErrInvalidPunchOrder = apperror.New(apperror.CodeBadRequest, "punch-out time cannot be before punch-in time")

	// Storage
	ErrAttendanceExists = apperror.New(apperror.CodeConflict, "attendance for this employee and date already exists")

	// General errors
	ErrAttendanceNotFound = apperror.New(apperror.CodeNotFound, "attendance record not found")
	ErrForbidden          = apperror.New(apperror.CodeForbidden, "not allowed to access this attendance record")
	ErrAlreadyApproved    = apperror.New(apperror.CodeConflict, "attendance has already been approved")
	ErrNothingToCorrect   = apperror.New(apperror.CodeBadRequest, "correction needs a punch-out time when there is no punch-in")
	ErrPunchOutRequired   = apperror.New(apperror.CodeBadRequest, "a correction on a past day needs a punch-out time")
	ErrDateNotPast        = apperror.New(apperror.CodeBadRequest, "absences can only be marked for past days")
)
