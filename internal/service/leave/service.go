package leave

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

// Config carries the office timezone used to decide "today" and an optional clock.
type Config struct {
	Location *time.Location
	Now      func() time.Time
}

type LeaveServiceImpl struct {
	transactor     database.Transactor
	leaveRepo      leave.LeaveRequestRepository
	employeeRepo   employee.EmployeeRepository
	ledger         leave.LedgerService
	holidayService holiday.HolidayService
	notifier       notification.Service

	location *time.Location
	now      func() time.Time
}

func NewLeaveService(
	transactor database.Transactor,
	leaveRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	ledger leave.LedgerService,
	holidayService holiday.HolidayService,
	notifier notification.Service,
	cfg Config,
) leave.LeaveService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &LeaveServiceImpl{
		transactor:     transactor,
		leaveRepo:      leaveRepo,
		employeeRepo:   employeeRepo,
		ledger:         ledger,
		holidayService: holidayService,
		notifier:       notifier,
		location:       cfg.Location,
		now:            cfg.Now,
	}
}

// GetLeaveRequest implements leave.LeaveService. Employees may only read their own requests.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, actor user.Identity, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := l.leaveRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if request.EmployeeID != actor.EmployeeID && !actor.CanApprove() {
		return leave.LeaveRequestResponse{}, leave.ErrForbidden
	}

	return mapLeaveRequestToResponse(request), nil
}

// ListLeaveRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, total, err := l.leaveRepo.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, mapLeaveRequestToResponse(r))
	}

	return leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    int(math.Ceil(float64(total) / float64(filter.Limit))),
		LeaveRequests: responses,
	}, nil
}

// ListMyLeaveRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMyLeaveRequests(ctx context.Context, employeeID string, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	filter.EmployeeID = &employeeID
	return l.ListLeaveRequests(ctx, filter)
}

// CalculateWorkingDays implements leave.LeaveService. It previews what a
// request over the same range would be charged.
func (l *LeaveServiceImpl) CalculateWorkingDays(ctx context.Context, req leave.WorkingDaysRequest) (leave.WorkingDaysResponse, error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return leave.WorkingDaysResponse{}, leave.ErrInvalidDateRange
	}
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return leave.WorkingDaysResponse{}, err
	}

	cal, err := l.holidayService.Calendar(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return leave.WorkingDaysResponse{}, fmt.Errorf("failed to build working day calendar: %w", err)
	}

	holidays := make([]calendar.Date, 0)
	for d := req.StartDate; !d.After(req.EndDate); d = d.AddDays(1) {
		if cal.IsHoliday(d) {
			holidays = append(holidays, d)
		}
	}

	return leave.WorkingDaysResponse{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalDays:   cal.CountLeaveDays(req.StartDate, req.EndDate, req.IsHalfDay).InexactFloat64(),
		WorkingDays: cal.WorkingDaysBetween(req.StartDate, req.EndDate),
		Holidays:    holidays,
	}, nil
}

func mapLeaveRequestToResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	var halfDayType *string
	if r.HalfDayType != nil {
		s := string(*r.HalfDayType)
		halfDayType = &s
	}

	return leave.LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		LeaveType:       string(r.LeaveType),
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		TotalDays:       r.TotalDays.InexactFloat64(),
		IsHalfDay:       r.IsHalfDay,
		HalfDayType:     halfDayType,
		Reason:          r.Reason,
		Priority:        string(r.Priority),
		Status:          string(r.Status),
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		CancelledBy:     r.CancelledBy,
		CancelledAt:     r.CancelledAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
