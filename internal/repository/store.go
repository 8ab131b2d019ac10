package repository

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

// Store bundles one backend's repositories with the transactor they share.
type Store struct {
	Transactor    database.Transactor
	Employees     employee.EmployeeRepository
	Attendance    attendance.AttendanceRepository
	LeaveRequests leave.LeaveRequestRepository
	Ledger        leave.LedgerRepository
	Holidays      holiday.HolidayRepository
	Settings      settings.SettingsRepository
}
