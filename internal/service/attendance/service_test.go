package attendance_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite/sqlitetest"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	holidayService "github.com/cmlabs-hris/hris-attendance-go/internal/service/holiday"
	settingsService "github.com/cmlabs-hris/hris-attendance-go/internal/service/settings"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	officeLat = -6.2088
	officeLng = 106.8456
)

// Monday 7 January 2030. Far enough ahead that seeded employees already exist.
var monday = calendar.NewDate(2030, time.January, 7)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(d calendar.Date, hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	store    repository.Store
	clock    *clock
	holidays holiday.HolidayService
	svc      attendance.AttendanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := sqlitetest.NewStore(t)

	settingsSvc := settingsService.NewSettingsService(store.Settings)
	require.NoError(t, settingsSvc.EnsureOfficeLocation(context.Background(), settings.OfficeLocation{
		Latitude:                  officeLat,
		Longitude:                 officeLng,
		MaxDistanceKm:             100,
		LocationValidationEnabled: true,
	}))

	c := &clock{}
	c.Set(monday, 8, 0)
	holidaySvc := holidayService.NewHolidayService(store.Holidays)

	svc := attendanceService.NewAttendanceService(
		store.Transactor, store.Attendance, store.Employees, store.LeaveRequests,
		settingsSvc, holidaySvc,
		attendanceService.Config{
			Policy: attendance.WorkPolicy{
				WorkStart:     9 * time.Hour,
				StandardHours: decimal.NewFromInt(8),
				Location:      time.UTC,
			},
			Now: c.Now,
		},
	)
	return &fixture{store: store, clock: c, holidays: holidaySvc, svc: svc}
}

func (f *fixture) seedEmployee(t *testing.T, code string, role user.Role) employee.Employee {
	t.Helper()
	emp, err := f.store.Employees.Create(context.Background(), employee.Employee{
		ID:           uuid.NewString(),
		EmployeeCode: code,
		FullName:     "Employee " + code,
		Email:        code + "@example.com",
		Role:         role,
		LeaveBalance: employee.DefaultLeaveBalance(),
		IsActive:     true,
	})
	require.NoError(t, err)
	return emp
}

func punch(employeeID string, lat, lng float64) attendance.PunchRequest {
	return attendance.PunchRequest{EmployeeID: employeeID, Latitude: &lat, Longitude: &lng}
}

func TestPunchInThenOut_OnTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.seedEmployee(t, "E001", user.RoleEmployee)

	f.clock.Set(monday, 8, 55)
	in, err := f.svc.PunchIn(ctx, punch(emp.ID, officeLat, officeLng))
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusWorking), in.Status)
	assert.Nil(t, in.PunchOut)
	require.NotNil(t, in.DistanceKm)
	assert.InDelta(t, 0, *in.DistanceKm, 0.001)

	status, err := f.svc.GetTodayStatus(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, status.IsWorkingDay)
	assert.False(t, status.CanPunchIn)
	assert.True(t, status.CanPunchOut)

	f.clock.Set(monday, 17, 30)
	out, err := f.svc.PunchOut(ctx, punch(emp.ID, officeLat, officeLng))
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPresent), out.Status)
	assert.InDelta(t, 8.58, out.TotalHours, 0.005)

	_, err = f.svc.PunchOut(ctx, punch(emp.ID, officeLat, officeLng))
	assert.True(t, errors.Is(err, attendance.ErrAlreadyPunchedOut))
}

func TestPunchIn_LateRegardlessOfDuration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.seedEmployee(t, "E001", user.RoleEmployee)

	f.clock.Set(monday, 9, 20)
	_, err := f.svc.PunchIn(ctx, punch(emp.ID, officeLat, officeLng))
	require.NoError(t, err)

	f.clock.Set(monday, 19, 0)
	out, err := f.svc.PunchOut(ctx, punch(emp.ID, officeLat, officeLng))
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), out.Status)
}

func TestPunchIn_OutsideRadius(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.seedEmployee(t, "E001", user.RoleEmployee)

	// About 200 km due south of the office.
	_, err := f.svc.PunchIn(ctx, punch(emp.ID, officeLat-1.8, officeLng))
	require.Error(t, err)
	assert.True(t, errors.Is(err, attendance.ErrInvalidLocation))
	assert.Equal(t, apperror.CodeInvalidLocation, apperror.GetCode(err))
	assert.Contains(t, err.Error(), "km away from office")

	status, err := f.svc.GetTodayStatus(ctx, emp.ID)
	require.NoError(t, err)
	assert.Nil(t, status.Attendance, "failed punch must not create a record")
}

func TestPunchIn_Twice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.seedEmployee(t, "E001", user.RoleEmployee)

	_, err := f.svc.PunchIn(ctx, punch(emp.ID, officeLat, officeLng))
	require.NoError(t, err)

	_, err = f.svc.PunchIn(ctx, punch(emp.ID, officeLat, officeLng))
	assert.True(t, errors.Is(err, attendance.ErrAlreadyPunchedIn))
}

func TestPunchIn_ConcurrentOnlyOneWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.seedEmployee(t, "E001", user.RoleEmployee)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.PunchIn(ctx, punch(emp.ID, officeLat, officeLng))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, attendance.ErrAlreadyPunchedIn):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)
}

func TestPunchOut_WithoutPunchIn(t *testing.T) {
	f := newFixture(t)
	emp := f.seedEmployee(t, "E001", user.RoleEmployee)

	_, err := f.svc.PunchOut(context.Background(), punch(emp.ID, officeLat, officeLng))
	assert.True(t, errors.Is(err, attendance.ErrNoPunchInFound))
}

func TestPunchIn_InactiveEmployee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.seedEmployee(t, "E001", user.RoleEmployee)

	emp.IsActive = false
	_, err := f.store.Employees.Update(ctx, emp)
	require.NoError(t, err)

	_, err = f.svc.PunchIn(ctx, punch(emp.ID, officeLat, officeLng))
	assert.True(t, errors.Is(err, employee.ErrEmployeeInactive))
}

func TestPunchIn_RequiresCoordinates(t *testing.T) {
	f := newFixture(t)
	emp := f.seedEmployee(t, "E001", user.RoleEmployee)

	_, err := f.svc.PunchIn(context.Background(), attendance.PunchRequest{EmployeeID: emp.ID})
	assert.ErrorContains(t, err, "latitude is required")
}

func TestGetAttendance_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.seedEmployee(t, "E001", user.RoleEmployee)
	other := f.seedEmployee(t, "E002", user.RoleEmployee)
	mgr := f.seedEmployee(t, "M001", user.RoleManager)

	rec, err := f.svc.PunchIn(ctx, punch(owner.ID, officeLat, officeLng))
	require.NoError(t, err)

	_, err = f.svc.GetAttendance(ctx, user.Identity{EmployeeID: owner.ID, Role: user.RoleEmployee}, rec.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetAttendance(ctx, user.Identity{EmployeeID: mgr.ID, Role: user.RoleManager}, rec.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetAttendance(ctx, user.Identity{EmployeeID: other.ID, Role: user.RoleEmployee}, rec.ID)
	assert.True(t, errors.Is(err, attendance.ErrForbidden))
}

func TestCorrectAndApproveAttendance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.seedEmployee(t, "E001", user.RoleEmployee)
	mgr := f.seedEmployee(t, "M001", user.RoleManager)

	f.clock.Set(monday, 9, 45)
	rec, err := f.svc.PunchIn(ctx, punch(emp.ID, officeLat, officeLng))
	require.NoError(t, err)

	in, out := "2030-01-07T08:30:00Z", "2030-01-07T17:00:00Z"
	corrected, err := f.svc.CorrectAttendance(ctx, attendance.CorrectAttendanceRequest{
		ID: rec.ID, ActorID: mgr.ID, PunchInTime: &in, PunchOutTime: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPresent), corrected.Status)
	assert.InDelta(t, 8.5, corrected.TotalHours, 0.001)
	require.NotNil(t, corrected.PunchIn)
	assert.Equal(t, officeLat, corrected.PunchIn.Latitude, "correction keeps recorded coordinates")

	approved, err := f.svc.ApproveAttendance(ctx, attendance.ApproveAttendanceRequest{ID: rec.ID, ActorID: mgr.ID})
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	assert.Equal(t, mgr.ID, *approved.ApprovedBy)

	_, err = f.svc.ApproveAttendance(ctx, attendance.ApproveAttendanceRequest{ID: rec.ID, ActorID: mgr.ID})
	assert.True(t, errors.Is(err, attendance.ErrAlreadyApproved))
}

func TestListAttendance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.seedEmployee(t, "E001", user.RoleEmployee)
	b := f.seedEmployee(t, "E002", user.RoleEmployee)

	for _, emp := range []employee.Employee{a, b} {
		_, err := f.svc.PunchIn(ctx, punch(emp.ID, officeLat, officeLng))
		require.NoError(t, err)
	}

	all, err := f.svc.ListAttendance(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.TotalCount)
	assert.Equal(t, "1-2 of 2", all.Showing)

	mine, err := f.svc.GetMyAttendance(ctx, a.ID, attendance.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, mine.Attendances, 1)
	assert.Equal(t, a.ID, mine.Attendances[0].EmployeeID)

	none, err := f.svc.GetMyAttendance(ctx, uuid.NewString(), attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, "0 of 0", none.Showing)
}

func TestMarkAbsences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	present := f.seedEmployee(t, "E001", user.RoleEmployee)
	absent := f.seedEmployee(t, "E002", user.RoleEmployee)
	onLeave := f.seedEmployee(t, "E003", user.RoleEmployee)

	_, err := f.svc.PunchIn(ctx, punch(present.ID, officeLat, officeLng))
	require.NoError(t, err)

	approvedBy := present.ID
	approvedAt := time.Now()
	_, err = f.store.LeaveRequests.Create(ctx, leave.LeaveRequest{
		ID:         uuid.NewString(),
		EmployeeID: onLeave.ID,
		LeaveType:  leave.LeaveTypeAnnual,
		StartDate:  monday,
		EndDate:    monday,
		TotalDays:  decimal.NewFromInt(1),
		Reason:     "family matters to attend",
		Priority:   leave.PriorityMedium,
		Status:     leave.LeaveRequestStatusApproved,
		ApprovedBy: &approvedBy,
		ApprovedAt: &approvedAt,
	})
	require.NoError(t, err)

	_, err = f.svc.MarkAbsences(ctx, monday)
	assert.True(t, errors.Is(err, attendance.ErrDateNotPast), "today is still open")

	f.clock.Set(monday.AddDays(1), 1, 0)
	summary, err := f.svc.MarkAbsences(ctx, monday)
	require.NoError(t, err)
	assert.False(t, summary.Skipped)
	assert.Equal(t, 1, summary.MarkedAbsent)
	assert.Equal(t, 1, summary.MarkedLeave)

	again, err := f.svc.MarkAbsences(ctx, monday)
	require.NoError(t, err)
	assert.Zero(t, again.MarkedAbsent)
	assert.Zero(t, again.MarkedLeave)

	statusOf := func(id string) attendance.Status {
		rec, err := f.store.Attendance.GetByEmployeeAndDate(ctx, id, monday)
		require.NoError(t, err)
		require.NotNil(t, rec)
		return rec.Status
	}
	assert.Equal(t, attendance.StatusWorking, statusOf(present.ID))
	assert.Equal(t, attendance.StatusAbsent, statusOf(absent.ID))
	assert.Equal(t, attendance.StatusLeave, statusOf(onLeave.ID))
}

func TestMarkAbsences_SkipsNonWorkingDays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedEmployee(t, "E001", user.RoleEmployee)

	sunday := monday.AddDays(-1)
	_, err := f.holidays.CreateHoliday(ctx, holiday.CreateHolidayRequest{Date: monday, Name: "New Year observed"})
	require.NoError(t, err)

	f.clock.Set(monday.AddDays(2), 8, 0)
	for _, d := range []calendar.Date{sunday, monday} {
		summary, err := f.svc.MarkAbsences(ctx, d)
		require.NoError(t, err)
		assert.True(t, summary.Skipped, d.String())
		assert.Zero(t, summary.MarkedAbsent)
	}
}

func TestPunchIn_OverAbsencePlaceholder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.seedEmployee(t, "E001", user.RoleEmployee)

	created, err := f.store.Attendance.CreateIfAbsent(ctx, attendance.Attendance{
		ID: uuid.NewString(), EmployeeID: emp.ID, Date: monday, Status: attendance.StatusAbsent,
	})
	require.NoError(t, err)
	require.True(t, created)

	rec, err := f.svc.PunchIn(ctx, punch(emp.ID, officeLat, officeLng))
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusWorking), rec.Status)
}

func TestCorrectAttendance_PastDayNeedsPunchOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp := f.seedEmployee(t, "E001", user.RoleEmployee)
	mgr := f.seedEmployee(t, "M001", user.RoleManager)

	placeholder := attendance.Attendance{
		ID: uuid.NewString(), EmployeeID: emp.ID, Date: monday, Status: attendance.StatusAbsent,
	}
	created, err := f.store.Attendance.CreateIfAbsent(ctx, placeholder)
	require.NoError(t, err)
	require.True(t, created)

	f.clock.Set(monday.AddDays(1), 10, 0)
	in, out := "2030-01-07T08:50:00Z", "2030-01-07T17:00:00Z"

	_, err = f.svc.CorrectAttendance(ctx, attendance.CorrectAttendanceRequest{
		ID: placeholder.ID, ActorID: mgr.ID, PunchInTime: &in,
	})
	assert.True(t, errors.Is(err, attendance.ErrPunchOutRequired))

	rec, err := f.store.Attendance.GetByID(ctx, placeholder.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, rec.Status, "rejected correction leaves the record untouched")

	corrected, err := f.svc.CorrectAttendance(ctx, attendance.CorrectAttendanceRequest{
		ID: placeholder.ID, ActorID: mgr.ID, PunchInTime: &in, PunchOutTime: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPresent), corrected.Status)
}
