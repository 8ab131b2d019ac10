package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type LeaveService interface {
	// Request lifecycle
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	DecideLeaveRequest(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)
	RejectLeaveRequest(ctx context.Context, req RejectLeaveRequest) (LeaveRequestResponse, error)
	CancelLeaveRequest(ctx context.Context, actor user.Identity, requestID string) (LeaveRequestResponse, error)

	// Queries
	GetLeaveRequest(ctx context.Context, actor user.Identity, requestID string) (LeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	ListMyLeaveRequests(ctx context.Context, employeeID string, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	CalculateWorkingDays(ctx context.Context, req WorkingDaysRequest) (WorkingDaysResponse, error)
}

// LedgerService owns every mutation of employee leave balances.
type LedgerService interface {
	AvailableBalance(ctx context.Context, employeeID string, leaveType LeaveType) (decimal.Decimal, error)
	GetBalances(ctx context.Context, employeeID string) (employee.LeaveBalanceResponse, error)
	// Debit fails with *InsufficientBalanceError and changes nothing if the balance would go negative.
	Debit(ctx context.Context, employeeID string, leaveType LeaveType, days decimal.Decimal, referenceID *string, actorID *string) (decimal.Decimal, error)
	Credit(ctx context.Context, employeeID string, leaveType LeaveType, days decimal.Decimal, note *string, actorID *string) (decimal.Decimal, error)
	AdjustBalance(ctx context.Context, req AdjustBalanceRequest) (LedgerEntryResponse, error)
	History(ctx context.Context, employeeID string) ([]LedgerEntryResponse, error)
}
