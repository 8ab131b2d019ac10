package employee

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	// LockByID reads the employee and holds a row lock until the surrounding
	// transaction ends. Per-employee check-then-write sequences start here.
	LockByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ListActive(ctx context.Context) ([]Employee, error)
	// AdjustLeaveBalance adds delta to one balance column and returns the new
	// balance. It fails with ErrNegativeBalance, changing nothing, if the
	// result would be below zero.
	AdjustLeaveBalance(ctx context.Context, id string, leaveType string, delta decimal.Decimal) (decimal.Decimal, error)
}
