package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/geo"
	"github.com/google/uuid"
)

// Config carries the office hours policy and an optional clock.
type Config struct {
	Policy attendance.WorkPolicy
	Now    func() time.Time
}

type AttendanceServiceImpl struct {
	transactor      database.Transactor
	attendanceRepo  attendance.AttendanceRepository
	employeeRepo    employee.EmployeeRepository
	leaveRepo       leave.LeaveRequestRepository
	settingsService settings.SettingsService
	holidayService  holiday.HolidayService

	policy attendance.WorkPolicy
	now    func() time.Time
}

func NewAttendanceService(
	transactor database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	settingsService settings.SettingsService,
	holidayService holiday.HolidayService,
	cfg Config,
) attendance.AttendanceService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Policy.StandardHours.IsZero() {
		cfg.Policy = attendance.DefaultWorkPolicy()
	}

	return &AttendanceServiceImpl{
		transactor:      transactor,
		attendanceRepo:  attendanceRepo,
		employeeRepo:    employeeRepo,
		leaveRepo:       leaveRepo,
		settingsService: settingsService,
		holidayService:  holidayService,
		policy:          cfg.Policy,
		now:             cfg.Now,
	}
}

// PunchIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PunchIn(ctx context.Context, req attendance.PunchRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	nowUTC := a.now().UTC()
	today := a.policy.Today(nowUTC)

	var (
		record   attendance.Attendance
		distance *float64
	)
	err := a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := a.lockActiveEmployee(ctx, req.EmployeeID); err != nil {
			return err
		}

		existing, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if !existing.CanPunchIn() {
			return attendance.ErrAlreadyPunchedIn
		}

		distance, err = a.validateLocation(ctx, req)
		if err != nil {
			return err
		}

		if existing != nil {
			record = *existing
		} else {
			record = attendance.Attendance{
				ID:         uuid.NewString(),
				EmployeeID: req.EmployeeID,
				Date:       today,
			}
		}
		if err := record.RecordPunchIn(newPunch(req, nowUTC)); err != nil {
			return err
		}

		if existing != nil {
			if err := a.attendanceRepo.Update(ctx, record); err != nil {
				return fmt.Errorf("failed to update attendance: %w", err)
			}
			return nil
		}

		created, err := a.attendanceRepo.Create(ctx, record)
		if err != nil {
			// A concurrent punch-in won the unique (employee, date) slot.
			if errors.Is(err, attendance.ErrAttendanceExists) {
				return attendance.ErrAlreadyPunchedIn
			}
			return fmt.Errorf("failed to create attendance: %w", err)
		}
		record = created
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("employee punched in",
		"employee_id", record.EmployeeID,
		"date", record.Date.String(),
		"time", record.PunchIn.Time,
	)

	resp := mapAttendanceToResponse(record)
	resp.DistanceKm = distance
	return resp, nil
}

// PunchOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PunchOut(ctx context.Context, req attendance.PunchRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	nowUTC := a.now().UTC()
	today := a.policy.Today(nowUTC)

	var (
		record   attendance.Attendance
		distance *float64
	)
	err := a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := a.lockActiveEmployee(ctx, req.EmployeeID); err != nil {
			return err
		}

		existing, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if existing == nil || existing.PunchIn == nil {
			return attendance.ErrNoPunchInFound
		}
		if existing.PunchOut != nil {
			return attendance.ErrAlreadyPunchedOut
		}

		distance, err = a.validateLocation(ctx, req)
		if err != nil {
			return err
		}

		record = *existing
		if err := record.RecordPunchOut(newPunch(req, nowUTC), a.policy); err != nil {
			return err
		}
		if err := a.attendanceRepo.Update(ctx, record); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("employee punched out",
		"employee_id", record.EmployeeID,
		"date", record.Date.String(),
		"total_hours", record.TotalHours.String(),
		"status", record.Status,
	)

	resp := mapAttendanceToResponse(record)
	resp.DistanceKm = distance
	return resp, nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	today := a.policy.Today(a.now())

	cal, err := a.holidayService.Calendar(ctx, today, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to build working day calendar: %w", err)
	}

	record, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	resp := attendance.TodayStatusResponse{
		Date:         today,
		IsWorkingDay: cal.IsWorkingDay(today),
		CanPunchIn:   record.CanPunchIn(),
		CanPunchOut:  record.CanPunchOut(),
	}
	if record != nil {
		r := mapAttendanceToResponse(*record)
		resp.Attendance = &r
	}
	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	filter.EmployeeID = &employeeID
	filter.EmployeeName = nil
	return a.ListAttendance(ctx, filter)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := a.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, actor user.Identity, id string) (attendance.AttendanceResponse, error) {
	record, err := a.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if record.EmployeeID != actor.EmployeeID && !actor.CanApprove() {
		return attendance.AttendanceResponse{}, attendance.ErrForbidden
	}
	return mapAttendanceToResponse(record), nil
}

// CorrectAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CorrectAttendance(ctx context.Context, req attendance.CorrectAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	punchIn, punchOut := req.ParsedTimes()

	var record attendance.Attendance
	err := a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		record, err = a.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return err
			}
			return fmt.Errorf("failed to get attendance: %w", err)
		}

		if punchIn != nil {
			record.PunchIn = correctedPunch(record.PunchIn, *punchIn)
		}
		if punchOut != nil {
			if record.PunchIn == nil {
				return attendance.ErrNothingToCorrect
			}
			record.PunchOut = correctedPunch(record.PunchOut, *punchOut)
		}
		// A closed day cannot be left open; it would keep the working label forever.
		if punchIn != nil && record.PunchOut == nil && record.Date.Before(a.policy.Today(a.now())) {
			return attendance.ErrPunchOutRequired
		}
		if record.PunchIn != nil && record.PunchOut != nil && record.PunchOut.Time.Before(record.PunchIn.Time) {
			return attendance.ErrInvalidPunchOrder
		}
		if req.Notes != nil {
			record.Notes = req.Notes
		}

		record.Recalculate(a.policy)
		if err := a.attendanceRepo.Update(ctx, record); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("attendance corrected",
		"attendance_id", record.ID,
		"employee_id", record.EmployeeID,
		"actor_id", req.ActorID,
		"status", record.Status,
	)
	return mapAttendanceToResponse(record), nil
}

// ApproveAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ApproveAttendance(ctx context.Context, req attendance.ApproveAttendanceRequest) (attendance.AttendanceResponse, error) {
	var record attendance.Attendance
	err := a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		record, err = a.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return err
			}
			return fmt.Errorf("failed to get attendance: %w", err)
		}
		if record.IsApproved {
			return attendance.ErrAlreadyApproved
		}

		approvedAt := a.now().UTC()
		record.IsApproved = true
		record.ApprovedBy = &req.ActorID
		record.ApprovedAt = &approvedAt
		if req.Notes != nil {
			record.Notes = req.Notes
		}

		if err := a.attendanceRepo.Update(ctx, record); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(record), nil
}

// MarkAbsences implements attendance.AttendanceService. Running it twice for
// the same date writes nothing the second time.
func (a *AttendanceServiceImpl) MarkAbsences(ctx context.Context, date calendar.Date) (attendance.AbsenceSummary, error) {
	summary := attendance.AbsenceSummary{Date: date}

	if !date.Before(a.policy.Today(a.now())) {
		return summary, attendance.ErrDateNotPast
	}

	cal, err := a.holidayService.Calendar(ctx, date, date)
	if err != nil {
		return summary, fmt.Errorf("failed to build working day calendar: %w", err)
	}
	if !cal.IsWorkingDay(date) {
		summary.Skipped = true
		return summary, nil
	}

	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		employees, err := a.employeeRepo.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to list active employees: %w", err)
		}

		covering, err := a.leaveRepo.ListApprovedCovering(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to list approved leave: %w", err)
		}
		onLeave := make(map[string]struct{}, len(covering))
		for _, r := range covering {
			onLeave[r.EmployeeID] = struct{}{}
		}

		for _, emp := range employees {
			// Employees who joined after date have nothing to answer for.
			if a.policy.Today(emp.CreatedAt).After(date) {
				continue
			}

			status := attendance.StatusAbsent
			if _, ok := onLeave[emp.ID]; ok {
				status = attendance.StatusLeave
			}

			created, err := a.attendanceRepo.CreateIfAbsent(ctx, attendance.Attendance{
				ID:         uuid.NewString(),
				EmployeeID: emp.ID,
				Date:       date,
				Status:     status,
			})
			if err != nil {
				return fmt.Errorf("failed to create %s placeholder for employee %s: %w", status, emp.ID, err)
			}
			if !created {
				continue
			}
			if status == attendance.StatusLeave {
				summary.MarkedLeave++
			} else {
				summary.MarkedAbsent++
			}
		}
		return nil
	})
	if err != nil {
		return attendance.AbsenceSummary{Date: date}, err
	}

	slog.Info("absences marked", "summary", summary.String())
	return summary, nil
}

// lockActiveEmployee serialises punches of one employee for the rest of the transaction.
func (a *AttendanceServiceImpl) lockActiveEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := a.employeeRepo.LockByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to lock employee: %w", err)
	}
	if !emp.IsActive {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	return emp, nil
}

// validateLocation is fail-closed: no configured office means no punch.
func (a *AttendanceServiceImpl) validateLocation(ctx context.Context, req attendance.PunchRequest) (*float64, error) {
	policy, err := a.settingsService.CurrentPolicy(ctx)
	if err != nil {
		return nil, err
	}

	result := geo.Validate(geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}, policy)
	if !result.IsValid {
		return result.DistanceKm, apperror.Wrap(attendance.ErrInvalidLocation, result.Message)
	}
	return result.DistanceKm, nil
}

func newPunch(req attendance.PunchRequest, at time.Time) attendance.Punch {
	return attendance.Punch{
		Time:      at,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Device:    req.Device,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
	}
}

// correctedPunch keeps the recorded coordinates and moves only the time.
func correctedPunch(existing *attendance.Punch, at time.Time) *attendance.Punch {
	p := attendance.Punch{}
	if existing != nil {
		p = *existing
	}
	p.Time = at.UTC()
	return &p
}

func mapPunchToResponse(p *attendance.Punch) *attendance.PunchResponse {
	if p == nil {
		return nil
	}
	return &attendance.PunchResponse{
		Time:      p.Time,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Device:    p.Device,
		IPAddress: p.IPAddress,
		UserAgent: p.UserAgent,
	}
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           att.ID,
		EmployeeID:   att.EmployeeID,
		EmployeeName: att.EmployeeName,
		Date:         att.Date,
		PunchIn:      mapPunchToResponse(att.PunchIn),
		PunchOut:     mapPunchToResponse(att.PunchOut),
		TotalHours:   att.TotalHours.InexactFloat64(),
		Status:       string(att.Status),
		IsApproved:   att.IsApproved,
		ApprovedBy:   att.ApprovedBy,
		ApprovedAt:   att.ApprovedAt,
		Notes:        att.Notes,
		CreatedAt:    att.CreatedAt,
		UpdatedAt:    att.UpdatedAt,
	}
}
