package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestEmployee(t *testing.T, store repository.Store, code string) employee.Employee {
	t.Helper()
	emp, err := store.Employees.Create(context.Background(), employee.Employee{
		ID:           uuid.NewString(),
		EmployeeCode: code,
		FullName:     "Employee " + code,
		Email:        code + "@example.com",
		Role:         user.RoleEmployee,
		LeaveBalance: employee.DefaultLeaveBalance(),
		IsActive:     true,
	})
	require.NoError(t, err)
	return emp
}

func TestEmployeeRepository_Uniqueness(t *testing.T) {
	store := NewTestDatabase(t).Store()
	ctx := context.Background()
	emp := createTestEmployee(t, store, "E001")

	got, err := store.Employees.GetByEmail(ctx, "e001@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)

	dup := emp
	dup.ID = uuid.NewString()
	dup.EmployeeCode = "E002"
	_, err = store.Employees.Create(ctx, dup)
	assert.True(t, errors.Is(err, employee.ErrEmailExists))
}

func TestAttendanceRepository_UniquePerDay(t *testing.T) {
	store := NewTestDatabase(t).Store()
	ctx := context.Background()
	emp := createTestEmployee(t, store, "E001")

	rec := attendance.Attendance{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		Date:       calendar.NewDate(2030, time.January, 7),
		PunchIn:    &attendance.Punch{Time: time.Date(2030, time.January, 7, 9, 0, 0, 0, time.UTC), Latitude: -6.2, Longitude: 106.8},
		Status:     attendance.StatusWorking,
	}
	_, err := store.Attendance.Create(ctx, rec)
	require.NoError(t, err)

	rec.ID = uuid.NewString()
	_, err = store.Attendance.Create(ctx, rec)
	assert.True(t, errors.Is(err, attendance.ErrAttendanceExists))

	created, err := store.Attendance.CreateIfAbsent(ctx, rec)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEmployeeRepository_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	store := NewTestDatabase(t).Store()
	ctx := context.Background()
	emp := createTestEmployee(t, store, "E001")

	// 21 annual days, ten debits of 3 days each: exactly seven fit.
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
				if _, err := store.Employees.LockByID(ctx, emp.ID); err != nil {
					return err
				}
				_, err := store.Employees.AdjustLeaveBalance(ctx, emp.ID, string(leave.LeaveTypeAnnual), decimal.NewFromInt(-3))
				return err
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else {
				assert.True(t, errors.Is(err, employee.ErrNegativeBalance), err)
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 7, ok)
	assert.Equal(t, 3, fail)

	got, err := store.Employees.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "0", got.LeaveBalance.Annual.String())
}

func TestTransactor_Rollback(t *testing.T) {
	store := NewTestDatabase(t).Store()
	ctx := context.Background()
	emp := createTestEmployee(t, store, "E001")

	boom := errors.New("boom")
	err := store.Transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := store.Employees.AdjustLeaveBalance(ctx, emp.ID, "sick", decimal.NewFromInt(-4)); err != nil {
			return err
		}
		_, err := store.Ledger.Append(ctx, leave.LedgerEntry{
			ID:           uuid.NewString(),
			EmployeeID:   emp.ID,
			LeaveType:    leave.LeaveTypeSick,
			Delta:        decimal.NewFromInt(-4),
			BalanceAfter: decimal.NewFromInt(6),
			Reason:       leave.LedgerReasonAdminAdjustment,
		})
		require.NoError(t, err)
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	got, err := store.Employees.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", got.LeaveBalance.Sick.String())

	entries, err := store.Ledger.ListByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
