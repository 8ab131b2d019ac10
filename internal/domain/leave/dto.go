package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

const minReasonLength = 10

type CreateLeaveRequestRequest struct {
	LeaveType   string        `json:"leave_type"`
	StartDate   calendar.Date `json:"start_date"`
	EndDate     calendar.Date `json:"end_date"`
	Reason      string        `json:"reason"`
	IsHalfDay   bool          `json:"is_half_day"`
	HalfDayType *string       `json:"half_day_type,omitempty"`
	Priority    string        `json:"priority,omitempty"`

	// Set by handler
	EmployeeID string `json:"-"`
}

// Validate checks shape only. Date-range rules depend on "today" and are
// enforced by the service with InvalidDateRange errors.
func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if !LeaveType(r.LeaveType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: annual, sick, personal, maternity, paternity, bereavement, other",
		})
	}

	if r.StartDate.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required (YYYY-MM-DD)",
		})
	}
	if r.EndDate.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required (YYYY-MM-DD)",
		})
	}

	r.Reason = strings.TrimSpace(r.Reason)
	if !validator.MinLength(r.Reason, minReasonLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must be at least 10 characters",
		})
	}
	if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if r.IsHalfDay {
		if r.HalfDayType == nil || !validator.IsInSlice(*r.HalfDayType, []string{string(HalfDayMorning), string(HalfDayAfternoon)}) {
			errs = append(errs, validator.ValidationError{
				Field:   "half_day_type",
				Message: "half_day_type must be morning or afternoon for a half-day request",
			})
		}
	} else if r.HalfDayType != nil && *r.HalfDayType != "" {
		errs = append(errs, validator.ValidationError{
			Field:   "half_day_type",
			Message: "half_day_type is only allowed when is_half_day is true",
		})
	} else {
		r.HalfDayType = nil
	}

	if r.Priority == "" {
		r.Priority = string(PriorityMedium)
	}
	validPriorities := []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh), string(PriorityUrgent)}
	if !validator.IsInSlice(r.Priority, validPriorities) {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be one of: low, medium, high, urgent",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DecisionAction string

const (
	DecisionApprove DecisionAction = "approve"
	DecisionReject  DecisionAction = "reject"
)

// DecideLeaveRequest is the body of PUT /leaves/{id}/approve. An empty action means approve.
type DecideLeaveRequest struct {
	ID              string  `json:"-"`
	ApproverID      string  `json:"-"`
	Action          string  `json:"action,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func (r *DecideLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Action == "" {
		r.Action = string(DecisionApprove)
	}
	r.Action = strings.ToLower(r.Action)

	switch DecisionAction(r.Action) {
	case DecisionApprove:
	case DecisionReject:
		if r.RejectionReason == nil || !validator.MinLength(*r.RejectionReason, minReasonLength) {
			errs.Add("rejection_reason", "rejection_reason must be at least 10 characters")
		}
	default:
		errs.Add("action", "action must be approve or reject")
	}

	return errs.Err()
}

type RejectLeaveRequest struct {
	ID              string `json:"-"`
	ApproverID      string `json:"-"`
	RejectionReason string `json:"rejection_reason"`
}

func (r *RejectLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.MinLength(r.RejectionReason, minReasonLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: "rejection_reason must be at least 10 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	LeaveType  *string `json:"leave_type,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // requests ending on or after
	EndDate    *string `json:"end_date,omitempty"`   // requests starting on or before

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	validStatuses := []string{
		string(LeaveRequestStatusPending), string(LeaveRequestStatusApproved),
		string(LeaveRequestStatusRejected), string(LeaveRequestStatusCancelled),
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(validStatuses, ", "))
	}
	if f.LeaveType != nil && !LeaveType(*f.LeaveType).IsValid() {
		errs.Add("leave_type", "leave_type is not a known leave type")
	}
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type LeaveRequestResponse struct {
	ID              string        `json:"id"`
	EmployeeID      string        `json:"employee_id"`
	EmployeeName    *string       `json:"employee_name,omitempty"`
	LeaveType       string        `json:"leave_type"`
	StartDate       calendar.Date `json:"start_date"`
	EndDate         calendar.Date `json:"end_date"`
	TotalDays       float64       `json:"total_days"`
	IsHalfDay       bool          `json:"is_half_day"`
	HalfDayType     *string       `json:"half_day_type,omitempty"`
	Reason          string        `json:"reason"`
	Priority        string        `json:"priority"`
	Status          string        `json:"status"`
	ApprovedBy      *string       `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time    `json:"approved_at,omitempty"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	CancelledBy     *string       `json:"cancelled_by,omitempty"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type ListLeaveRequestResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}

type WorkingDaysRequest struct {
	StartDate calendar.Date
	EndDate   calendar.Date
	IsHalfDay bool
}

type WorkingDaysResponse struct {
	StartDate   calendar.Date   `json:"start_date"`
	EndDate     calendar.Date   `json:"end_date"`
	TotalDays   float64         `json:"total_days"`
	WorkingDays []calendar.Date `json:"working_days"`
	Holidays    []calendar.Date `json:"holidays"`
}

// AdjustBalanceRequest is the admin override. Positive days credit, negative days debit.
type AdjustBalanceRequest struct {
	EmployeeID string  `json:"-"`
	ActorID    string  `json:"-"`
	LeaveType  string  `json:"leave_type"`
	Days       float64 `json:"days"`
	Note       *string `json:"note,omitempty"`
}

func (r *AdjustBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !LeaveType(r.LeaveType).HasBalance() {
		errs.Add("leave_type", "leave_type must be one of: annual, sick, personal, maternity, paternity")
	}
	if r.Days == 0 {
		errs.Add("days", "days must not be zero")
	}
	// Half-day granularity only.
	if r.Days*2 != float64(int64(r.Days*2)) {
		errs.Add("days", "days must be a multiple of 0.5")
	}
	if r.Note != nil && len(*r.Note) > 500 {
		errs.Add("note", "note must not exceed 500 characters")
	}

	return errs.Err()
}

type LedgerEntryResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	LeaveType    string    `json:"leave_type"`
	Delta        float64   `json:"delta"`
	BalanceAfter float64   `json:"balance_after"`
	Reason       string    `json:"reason"`
	Note         *string   `json:"note,omitempty"`
	ReferenceID  *string   `json:"reference_id,omitempty"`
	CreatedBy    *string   `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
