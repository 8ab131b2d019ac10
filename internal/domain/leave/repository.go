package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	// LockByID reads the request and holds a row lock until the transaction ends.
	LockByID(ctx context.Context, id string) (LeaveRequest, error)
	// UpdateDecision persists status and the approval/rejection/cancellation fields.
	UpdateDecision(ctx context.Context, request LeaveRequest) error
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	// FindOverlapping returns pending or approved requests of the employee
	// whose inclusive range intersects [start, end].
	FindOverlapping(ctx context.Context, employeeID string, start, end calendar.Date) ([]LeaveRequest, error)
	// ListApprovedCovering returns approved requests whose range contains date.
	ListApprovedCovering(ctx context.Context, date calendar.Date) ([]LeaveRequest, error)
}

// LedgerRepository - append-only leave_ledger_entries table
type LedgerRepository interface {
	Append(ctx context.Context, entry LedgerEntry) (LedgerEntry, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LedgerEntry, error)
}
