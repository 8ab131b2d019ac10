package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

type Status string

const (
	// StatusWorking is the provisional label between punch-in and punch-out.
	StatusWorking Status = "working"
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusWorking, StatusPresent, StatusLate, StatusHalfDay, StatusAbsent, StatusLeave:
		return true
	}
	return false
}

// Punch is one punch-in or punch-out event. Time is always stored in UTC.
type Punch struct {
	Time      time.Time
	Latitude  float64
	Longitude float64
	Device    *string
	IPAddress *string
	UserAgent *string
}

// Attendance is the record of one employee on one calendar day.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       calendar.Date
	PunchIn    *Punch
	PunchOut   *Punch
	TotalHours decimal.Decimal
	Status     Status
	IsApproved bool
	ApprovedBy *string
	ApprovedAt *time.Time
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO / Join
	EmployeeName *string
}

// CanPunchIn reports whether a punch-in is still possible for this day.
// A nil record means nothing has been recorded yet.
func (a *Attendance) CanPunchIn() bool {
	return a == nil || a.PunchIn == nil
}

func (a *Attendance) CanPunchOut() bool {
	return a != nil && a.PunchIn != nil && a.PunchOut == nil
}

// RecordPunchIn moves the record from NoRecord to PunchedIn. A placeholder
// row left by the absence job (absent or leave) may still be punched into.
func (a *Attendance) RecordPunchIn(p Punch) error {
	if !a.CanPunchIn() {
		return ErrAlreadyPunchedIn
	}
	p.Time = p.Time.UTC()
	a.PunchIn = &p
	a.PunchOut = nil
	a.TotalHours = decimal.Zero
	a.Status = StatusWorking
	return nil
}

// RecordPunchOut moves the record from PunchedIn to Completed and derives hours and status.
func (a *Attendance) RecordPunchOut(p Punch, policy WorkPolicy) error {
	if a.PunchIn == nil {
		return ErrNoPunchInFound
	}
	if a.PunchOut != nil {
		return ErrAlreadyPunchedOut
	}
	p.Time = p.Time.UTC()
	if p.Time.Before(a.PunchIn.Time) {
		return ErrInvalidPunchOrder
	}
	a.PunchOut = &p
	a.Recalculate(policy)
	return nil
}

// Recalculate derives TotalHours and Status from the punches. It is the only
// place status is computed; an open record keeps the working label.
func (a *Attendance) Recalculate(policy WorkPolicy) {
	if a.PunchIn == nil {
		a.TotalHours = decimal.Zero
		return
	}
	if a.PunchOut == nil {
		a.TotalHours = decimal.Zero
		a.Status = StatusWorking
		return
	}
	a.TotalHours = WorkedHours(a.PunchIn.Time, a.PunchOut.Time)
	a.Status = policy.Classify(a.PunchIn.Time, a.TotalHours)
}

// WorkedHours returns the duration between in and out in hours, rounded to 2 decimals.
func WorkedHours(in, out time.Time) decimal.Decimal {
	d := out.Sub(in)
	if d < 0 {
		d = 0
	}
	return decimal.NewFromInt(int64(d)).
		Div(decimal.NewFromInt(int64(time.Hour))).
		Round(2)
}

// WorkPolicy carries the office hours used to classify a completed day.
type WorkPolicy struct {
	WorkStart     time.Duration // offset from local midnight, 9h for 09:00
	GracePeriod   time.Duration
	StandardHours decimal.Decimal
	Location      *time.Location
}

func DefaultWorkPolicy() WorkPolicy {
	return WorkPolicy{
		WorkStart:     9 * time.Hour,
		StandardHours: decimal.NewFromInt(8),
		Location:      time.UTC,
	}
}

func (p WorkPolicy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Today returns the calendar day of now in the office timezone.
func (p WorkPolicy) Today(now time.Time) calendar.Date {
	return calendar.Today(now, p.location())
}

// IsLate reports whether punchIn is after work start plus grace, in office time.
// Punching in exactly at the threshold is on time.
func (p WorkPolicy) IsLate(punchIn time.Time) bool {
	local := punchIn.In(p.location())
	y, m, d := local.Date()
	threshold := time.Date(y, m, d, 0, 0, 0, 0, p.location()).Add(p.WorkStart + p.GracePeriod)
	return local.After(threshold)
}

// Classify checks lateness first, then duration.
func (p WorkPolicy) Classify(punchIn time.Time, totalHours decimal.Decimal) Status {
	if p.IsLate(punchIn) {
		return StatusLate
	}
	if totalHours.LessThan(p.StandardHours.Div(decimal.NewFromInt(2))) {
		return StatusHalfDay
	}
	return StatusPresent
}
