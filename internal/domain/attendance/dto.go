package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// PunchRequest is shared by punch-in and punch-out.
type PunchRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Device    *string  `json:"device,omitempty"`

	// Set by handler
	EmployeeID string  `json:"-"`
	IPAddress  *string `json:"-"`
	UserAgent  *string `json:"-"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if !validator.IsLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if !validator.IsLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.Device != nil && len(*r.Device) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "device",
			Message: "device must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchResponse struct {
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Device    *string   `json:"device,omitempty"`
	IPAddress *string   `json:"ip_address,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
}

type AttendanceResponse struct {
	ID           string         `json:"id"`
	EmployeeID   string         `json:"employee_id"`
	EmployeeName *string        `json:"employee_name,omitempty"`
	Date         calendar.Date  `json:"date"`
	PunchIn      *PunchResponse `json:"punch_in"`
	PunchOut     *PunchResponse `json:"punch_out"`
	TotalHours   float64        `json:"total_hours"`
	Status       string         `json:"status"`
	IsApproved   bool           `json:"is_approved"`
	ApprovedBy   *string        `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
	Notes        *string        `json:"notes,omitempty"`
	DistanceKm   *float64       `json:"distance_km,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type TodayStatusResponse struct {
	Date         calendar.Date       `json:"date"`
	IsWorkingDay bool                `json:"is_working_day"`
	Attendance   *AttendanceResponse `json:"attendance"`
	CanPunchIn   bool                `json:"can_punch_in"`
	CanPunchOut  bool                `json:"can_punch_out"`
}

var validStatuses = []string{
	string(StatusWorking), string(StatusPresent), string(StatusLate),
	string(StatusHalfDay), string(StatusAbsent), string(StatusLeave),
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, punch_in_time, punch_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(validStatuses, ", "),
		})
	}

	for field, value := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs.Add(field, field+" must be in YYYY-MM-DD format")
			}
		}
	}

	if f.StartDate != nil && f.EndDate != nil && *f.StartDate != "" && *f.EndDate != "" && *f.EndDate < *f.StartDate {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "employee_name", "punch_in_time", "punch_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, employee_name, punch_in_time, punch_out_time, status",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// CorrectAttendanceRequest lets a manager fix a forgotten or wrong punch.
// Times are RFC3339; hours and status are always recomputed.
type CorrectAttendanceRequest struct {
	ID           string  `json:"-"`
	ActorID      string  `json:"-"`
	PunchInTime  *string `json:"punch_in_time,omitempty"`
	PunchOutTime *string `json:"punch_out_time,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	punchIn  *time.Time
	punchOut *time.Time
}

func (r *CorrectAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PunchInTime == nil && r.PunchOutTime == nil && r.Notes == nil {
		errs.Add("punch_in_time", "at least one of punch_in_time, punch_out_time or notes is required")
	}

	if r.PunchInTime != nil {
		if t, ok := validator.IsValidDateTime(*r.PunchInTime); ok {
			r.punchIn = &t
		} else {
			errs.Add("punch_in_time", "punch_in_time must be an RFC3339 timestamp")
		}
	}
	if r.PunchOutTime != nil {
		if t, ok := validator.IsValidDateTime(*r.PunchOutTime); ok {
			r.punchOut = &t
		} else {
			errs.Add("punch_out_time", "punch_out_time must be an RFC3339 timestamp")
		}
	}
	if r.punchIn != nil && r.punchOut != nil && r.punchOut.Before(*r.punchIn) {
		errs.Add("punch_out_time", "punch_out_time must not be before punch_in_time")
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs.Add("notes", "notes must not exceed 1000 characters")
	}

	return errs.Err()
}

// ParsedTimes returns the timestamps parsed by Validate.
func (r *CorrectAttendanceRequest) ParsedTimes() (punchIn, punchOut *time.Time) {
	return r.punchIn, r.punchOut
}

type ApproveAttendanceRequest struct {
	ID      string  `json:"-"`
	ActorID string  `json:"-"`
	Notes   *string `json:"notes,omitempty"`
}

// AbsenceSummary reports what the absence job wrote for one day.
type AbsenceSummary struct {
	Date         calendar.Date `json:"date"`
	Skipped      bool          `json:"skipped"`
	MarkedAbsent int           `json:"marked_absent"`
	MarkedLeave  int           `json:"marked_leave"`
}

func (s AbsenceSummary) String() string {
	return fmt.Sprintf("%s absent=%d leave=%d skipped=%t", s.Date, s.MarkedAbsent, s.MarkedLeave, s.Skipped)
}
