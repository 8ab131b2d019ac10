package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := Parse(s)
	require.NoError(t, err)
	return d
}

func TestIsWorkingDay(t *testing.T) {
	cal := New([]Date{NewDate(2026, time.November, 3)})

	tests := []struct {
		name string
		date string
		want bool
	}{
		{"monday", "2026-11-02", true},
		{"saturday is a working day", "2026-11-07", true},
		{"sunday", "2026-11-08", false},
		{"holiday on a tuesday", "2026-11-03", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.IsWorkingDay(mustDate(t, tt.date)))
		})
	}
}

func TestCountLeaveDays(t *testing.T) {
	holiday := NewDate(2026, time.November, 4)
	cal := New([]Date{holiday})

	tests := []struct {
		name    string
		start   string
		end     string
		halfDay bool
		want    string
	}{
		{"mon to wed without holiday", "2026-10-12", "2026-10-14", false, "3"},
		{"span over sunday", "2026-10-17", "2026-10-19", false, "2"},
		{"only sunday", "2026-10-18", "2026-10-18", false, "0"},
		{"holiday excluded", "2026-11-02", "2026-11-06", false, "4"},
		{"half day", "2026-10-12", "2026-10-12", true, "0.5"},
		{"half day range", "2026-10-12", "2026-10-14", true, "1.5"},
		{"inverted range", "2026-10-14", "2026-10-12", false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.CountLeaveDays(mustDate(t, tt.start), mustDate(t, tt.end), tt.halfDay)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestCountLeaveDays_Deterministic(t *testing.T) {
	cal := New([]Date{NewDate(2026, time.December, 25)})
	start, end := NewDate(2026, time.December, 20), NewDate(2027, time.January, 5)

	first := cal.CountLeaveDays(start, end, false)
	for i := 0; i < 5; i++ {
		assert.True(t, first.Equal(cal.CountLeaveDays(start, end, false)))
	}
	assert.Len(t, cal.WorkingDaysBetween(start, end), int(first.IntPart()))
}

func TestNilCalendarHasNoHolidays(t *testing.T) {
	var cal *Calendar
	assert.True(t, cal.IsWorkingDay(NewDate(2026, time.October, 16)))
}

func TestDate_Basics(t *testing.T) {
	d := mustDate(t, "2026-12-31")
	assert.Equal(t, "2027-01-01", d.AddDays(1).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.True(t, d.Equal(NewDate(2026, time.December, 31)))
	assert.Equal(t, 3, d.DaysUntil(d.AddDays(3)))
	assert.Equal(t, time.Thursday, d.Weekday())

	_, err := Parse("31/12/2026")
	assert.Error(t, err)
}

func TestToday_UsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	now := time.Date(2026, time.October, 16, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-10-16", Today(now, time.UTC).String())
	assert.Equal(t, "2026-10-17", Today(now, jakarta).String())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2026-10-12","end":null}`), &p))
	assert.Equal(t, NewDate(2026, time.October, 12), p.Start)
	assert.True(t, p.End.IsZero())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2026-10-12","end":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"12-10-2026"}`), &p))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-10-12", d.String())

	require.NoError(t, d.Scan("2026-10-13"))
	assert.Equal(t, "2026-10-13", d.String())

	require.NoError(t, d.Scan([]byte("2026-10-14T00:00:00Z")))
	assert.Equal(t, "2026-10-14", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2026, time.October, 12).Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-10-12", v)
}
