package leave

import (
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	ErrLeaveRequestNotFound = apperror.New(apperror.CodeNotFound, "leave request not found")
	ErrOverlappingLeave     = apperror.New(apperror.CodeOverlappingLeave, "leave request overlaps with an existing pending or approved request")
	ErrInsufficientBalance  = apperror.New(apperror.CodeInsufficientBalance, "insufficient leave balance")
	ErrInvalidTransition    = apperror.New(apperror.CodeInvalidTransition, "leave request is no longer pending")
	ErrInvalidDateRange     = apperror.New(apperror.CodeInvalidDateRange, "invalid leave date range")
	ErrSelfApproval         = apperror.New(apperror.CodeForbidden, "you cannot decide your own leave request")
	ErrForbidden            = apperror.New(apperror.CodeForbidden, "not allowed to access this leave request")
	ErrUntrackedLeaveType   = apperror.New(apperror.CodeBadRequest, "leave type has no balance")
	ErrNonPositiveDays      = apperror.New(apperror.CodeBadRequest, "days must be greater than zero")

	ErrEndBeforeStart    = apperror.Wrap(ErrInvalidDateRange, "end date must not be before start date")
	ErrStartDateInPast   = apperror.Wrap(ErrInvalidDateRange, "start date cannot be in the past")
	ErrNoWorkingDays     = apperror.Wrap(ErrInvalidDateRange, "selected dates contain no working days")
	ErrLeaveRangeTooLong = apperror.Wrap(ErrInvalidDateRange, "leave range must not exceed 366 days")
)

// InsufficientBalanceError carries the numbers behind a failed balance check.
type InsufficientBalanceError struct {
	LeaveType LeaveType
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient %s leave balance. Available: %s day(s), requested: %s day(s)",
		e.LeaveType, e.Available.String(), e.Requested.String())
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
