package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Email        string
	PasswordHash *string
	Role         user.Role
	Department   *string
	ManagerID    *string
	LeaveBalance LeaveBalance
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time

	// DTO / Join
	ManagerName *string
}

// Leave types that carry a balance. Other leave types are not tracked.
const (
	BalanceAnnual    = "annual"
	BalanceSick      = "sick"
	BalancePersonal  = "personal"
	BalanceMaternity = "maternity"
	BalancePaternity = "paternity"
)

var balanceColumns = map[string]string{
	BalanceAnnual:    "annual_leave_balance",
	BalanceSick:      "sick_leave_balance",
	BalancePersonal:  "personal_leave_balance",
	BalanceMaternity: "maternity_leave_balance",
	BalancePaternity: "paternity_leave_balance",
}

// BalanceColumn returns the employees column holding the balance for leaveType.
// Only whitelisted names are returned so callers may splice the result into SQL.
func BalanceColumn(leaveType string) (string, bool) {
	col, ok := balanceColumns[leaveType]
	return col, ok
}

// LeaveBalance holds remaining days per tracked leave type. Half days are allowed.
type LeaveBalance struct {
	Annual    decimal.Decimal
	Sick      decimal.Decimal
	Personal  decimal.Decimal
	Maternity decimal.Decimal
	Paternity decimal.Decimal
}

// DefaultLeaveBalance is what a newly created employee starts with.
func DefaultLeaveBalance() LeaveBalance {
	return LeaveBalance{
		Annual:    decimal.NewFromInt(21),
		Sick:      decimal.NewFromInt(10),
		Personal:  decimal.NewFromInt(5),
		Maternity: decimal.NewFromInt(90),
		Paternity: decimal.NewFromInt(15),
	}
}

// Of returns the balance for leaveType, or false if the type is not tracked.
func (b LeaveBalance) Of(leaveType string) (decimal.Decimal, bool) {
	switch leaveType {
	case BalanceAnnual:
		return b.Annual, true
	case BalanceSick:
		return b.Sick, true
	case BalancePersonal:
		return b.Personal, true
	case BalanceMaternity:
		return b.Maternity, true
	case BalancePaternity:
		return b.Paternity, true
	}
	return decimal.Zero, false
}

func (b LeaveBalance) IsNonNegative() bool {
	for _, v := range []decimal.Decimal{b.Annual, b.Sick, b.Personal, b.Maternity, b.Paternity} {
		if v.IsNegative() {
			return false
		}
	}
	return true
}

func (e *Employee) IsDeleted() bool {
	return e.DeletedAt != nil
}
