package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

type LeaveType string

const (
	LeaveTypeAnnual      LeaveType = "annual"
	LeaveTypeSick        LeaveType = "sick"
	LeaveTypePersonal    LeaveType = "personal"
	LeaveTypeMaternity   LeaveType = "maternity"
	LeaveTypePaternity   LeaveType = "paternity"
	LeaveTypeBereavement LeaveType = "bereavement"
	LeaveTypeOther       LeaveType = "other"
)

var AllLeaveTypes = []LeaveType{
	LeaveTypeAnnual, LeaveTypeSick, LeaveTypePersonal, LeaveTypeMaternity,
	LeaveTypePaternity, LeaveTypeBereavement, LeaveTypeOther,
}

func (t LeaveType) IsValid() bool {
	for _, lt := range AllLeaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

// HasBalance reports whether requests of this type are checked against and
// debited from the employee's leave balance. Bereavement and other are not.
func (t LeaveType) HasBalance() bool {
	_, ok := employee.BalanceColumn(string(t))
	return ok
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

// IsBlocking reports whether a request in this status occupies its dates.
func (s LeaveRequestStatus) IsBlocking() bool {
	return s == LeaveRequestStatusPending || s == LeaveRequestStatusApproved
}

type HalfDayType string

const (
	HalfDayMorning   HalfDayType = "morning"
	HalfDayAfternoon HalfDayType = "afternoon"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType

	StartDate calendar.Date
	EndDate   calendar.Date
	TotalDays decimal.Decimal

	IsHalfDay   bool
	HalfDayType *HalfDayType
	Reason      string
	Priority    Priority

	Status          LeaveRequestStatus
	ApprovedBy      *string // reviewer for both approval and rejection
	ApprovedAt      *time.Time
	RejectionReason *string

	CancelledBy *string
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
}

func (r *LeaveRequest) IsPending() bool {
	return r.Status == LeaveRequestStatusPending
}

// Overlaps uses inclusive bounds on both ranges.
func (r *LeaveRequest) Overlaps(start, end calendar.Date) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}

func (r *LeaveRequest) Covers(d calendar.Date) bool {
	return r.Overlaps(d, d)
}

// Approve moves a pending request to approved. The balance debit is the
// caller's job and must happen in the same transaction.
func (r *LeaveRequest) Approve(approverID string, at time.Time) error {
	if !r.IsPending() {
		return ErrInvalidTransition
	}
	at = at.UTC()
	r.Status = LeaveRequestStatusApproved
	r.ApprovedBy = &approverID
	r.ApprovedAt = &at
	r.RejectionReason = nil
	return nil
}

func (r *LeaveRequest) Reject(approverID, reason string, at time.Time) error {
	if !r.IsPending() {
		return ErrInvalidTransition
	}
	at = at.UTC()
	r.Status = LeaveRequestStatusRejected
	r.ApprovedBy = &approverID
	r.ApprovedAt = &at
	r.RejectionReason = &reason
	return nil
}

func (r *LeaveRequest) Cancel(actorID string, at time.Time) error {
	if !r.IsPending() {
		return ErrInvalidTransition
	}
	at = at.UTC()
	r.Status = LeaveRequestStatusCancelled
	r.CancelledBy = &actorID
	r.CancelledAt = &at
	return nil
}

type LedgerReason string

const (
	LedgerReasonLeaveApproved   LedgerReason = "leave_approved"
	LedgerReasonAdminAdjustment LedgerReason = "admin_adjustment"
)

// LedgerEntry is an append-only record of one balance mutation.
type LedgerEntry struct {
	ID           string
	EmployeeID   string
	LeaveType    LeaveType
	Delta        decimal.Decimal // negative for debits
	BalanceAfter decimal.Decimal
	Reason       LedgerReason
	Note         *string
	ReferenceID  *string // leave request id for approval debits
	CreatedBy    *string
	CreatedAt    time.Time
}
