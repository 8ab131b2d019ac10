package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// PunchIn opens today's record after validating the location
	PunchIn(ctx context.Context, req PunchRequest) (AttendanceResponse, error)

	// PunchOut closes today's record and derives hours and status
	PunchOut(ctx context.Context, req PunchRequest) (AttendanceResponse, error)

	// GetTodayStatus returns today's record and what the employee may do next
	GetTodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)

	// GetMyAttendance retrieves attendance records for the given employee
	GetMyAttendance(ctx context.Context, employeeID string, filter AttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin/manager)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single record; employees may only read their own
	GetAttendance(ctx context.Context, actor user.Identity, id string) (AttendanceResponse, error)

	// CorrectAttendance rewrites punch times (admin/manager) and recomputes hours and status
	CorrectAttendance(ctx context.Context, req CorrectAttendanceRequest) (AttendanceResponse, error)

	// ApproveAttendance marks a record as approved
	ApproveAttendance(ctx context.Context, req ApproveAttendanceRequest) (AttendanceResponse, error)

	// MarkAbsences writes absent/leave placeholders for employees with no record on date
	MarkAbsences(ctx context.Context, date calendar.Date) (AbsenceSummary, error)
}
