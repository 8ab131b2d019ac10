package holiday_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite/sqlitetest"
	holidayService "github.com/cmlabs-hris/hris-attendance-go/internal/service/holiday"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidayLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := holidayService.NewHolidayService(sqlitetest.NewStore(t).Holidays)

	newYear := calendar.NewDate(2030, time.January, 1)
	created, err := svc.CreateHoliday(ctx, holiday.CreateHolidayRequest{Date: newYear, Name: "  New Year  "})
	require.NoError(t, err)
	assert.Equal(t, "New Year", created.Name)
	assert.Equal(t, "Tuesday", created.Weekday)

	_, err = svc.CreateHoliday(ctx, holiday.CreateHolidayRequest{Date: newYear, Name: "Duplicate"})
	assert.True(t, errors.Is(err, holiday.ErrHolidayDateExists))

	moved := calendar.NewDate(2030, time.January, 2)
	updated, err := svc.UpdateHoliday(ctx, holiday.UpdateHolidayRequest{ID: created.ID, Date: &moved})
	require.NoError(t, err)
	assert.Equal(t, moved, updated.Date)
	assert.Equal(t, "New Year", updated.Name)

	cal, err := svc.Calendar(ctx, newYear, moved.AddDays(5))
	require.NoError(t, err)
	assert.True(t, cal.IsWorkingDay(newYear))
	assert.False(t, cal.IsWorkingDay(moved))

	list, err := svc.ListHolidays(ctx, holiday.HolidayFilter{Year: 2030})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeleteHoliday(ctx, created.ID))
	assert.True(t, errors.Is(svc.DeleteHoliday(ctx, created.ID), holiday.ErrHolidayNotFound))

	_, err = svc.UpdateHoliday(ctx, holiday.UpdateHolidayRequest{ID: uuid.NewString(), Date: &moved})
	assert.True(t, errors.Is(err, holiday.ErrHolidayNotFound))
}

func TestCreateHoliday_Validation(t *testing.T) {
	svc := holidayService.NewHolidayService(sqlitetest.NewStore(t).Holidays)

	_, err := svc.CreateHoliday(context.Background(), holiday.CreateHolidayRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date is required")
	assert.Contains(t, err.Error(), "name is required")
}
