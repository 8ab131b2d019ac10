package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
)

// AttendanceRepository defines data access methods for attendance records.
// (employee_id, date) is unique at the storage layer.
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrAttendanceExists on a duplicate (employee, date).
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// CreateIfAbsent inserts the record unless one already exists for (employee, date).
	CreateIfAbsent(ctx context.Context, attendance Attendance) (bool, error)

	// GetByID retrieves attendance by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil, nil when there is no record yet
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date calendar.Date) (*Attendance, error)

	// Update overwrites punches, hours, status, approval and notes
	Update(ctx context.Context, attendance Attendance) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}
