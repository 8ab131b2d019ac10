package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.October, 12, hour, minute, 0, 0, time.UTC)
}

func punchAt(t time.Time) Punch {
	return Punch{Time: t, Latitude: -6.2, Longitude: 106.8}
}

func TestAttendance_PunchLifecycle(t *testing.T) {
	policy := DefaultWorkPolicy()
	var rec *Attendance
	assert.True(t, rec.CanPunchIn())
	assert.False(t, rec.CanPunchOut())

	rec = &Attendance{EmployeeID: "emp-1"}
	require.NoError(t, rec.RecordPunchIn(punchAt(at(8, 55))))
	assert.Equal(t, StatusWorking, rec.Status)
	assert.False(t, rec.CanPunchIn())
	assert.True(t, rec.CanPunchOut())

	err := rec.RecordPunchIn(punchAt(at(9, 30)))
	assert.True(t, errors.Is(err, ErrAlreadyPunchedIn))
	assert.Equal(t, at(8, 55), rec.PunchIn.Time, "second punch-in must not alter the record")

	require.NoError(t, rec.RecordPunchOut(punchAt(at(17, 30)), policy))
	assert.Equal(t, "8.58", rec.TotalHours.StringFixed(2))
	assert.Equal(t, StatusPresent, rec.Status)
	assert.False(t, rec.CanPunchOut())

	err = rec.RecordPunchOut(punchAt(at(18, 0)), policy)
	assert.True(t, errors.Is(err, ErrAlreadyPunchedOut))
	assert.Equal(t, at(17, 30), rec.PunchOut.Time)
}

func TestAttendance_PunchOutWithoutPunchIn(t *testing.T) {
	rec := &Attendance{Status: StatusAbsent}
	err := rec.RecordPunchOut(punchAt(at(17, 0)), DefaultWorkPolicy())
	assert.True(t, errors.Is(err, ErrNoPunchInFound))
	assert.Nil(t, rec.PunchOut)
}

func TestAttendance_PunchOutBeforePunchIn(t *testing.T) {
	rec := &Attendance{}
	require.NoError(t, rec.RecordPunchIn(punchAt(at(10, 0))))
	err := rec.RecordPunchOut(punchAt(at(9, 0)), DefaultWorkPolicy())
	assert.True(t, errors.Is(err, ErrInvalidPunchOrder))
	assert.Nil(t, rec.PunchOut)
}

func TestAttendance_PunchInOverAbsencePlaceholder(t *testing.T) {
	rec := &Attendance{Status: StatusAbsent}
	require.NoError(t, rec.RecordPunchIn(punchAt(at(8, 0))))
	assert.Equal(t, StatusWorking, rec.Status)
}

func TestWorkPolicy_Classify(t *testing.T) {
	policy := DefaultWorkPolicy()

	tests := []struct {
		name    string
		in      time.Time
		out     time.Time
		want    Status
		wantHrs string
	}{
		{"on time full day", at(8, 55), at(17, 30), StatusPresent, "8.58"},
		{"exactly nine is on time", at(9, 0), at(17, 0), StatusPresent, "8.00"},
		{"late regardless of duration", at(9, 20), at(19, 0), StatusLate, "9.67"},
		{"one second late", at(9, 0).Add(time.Second), at(17, 0), StatusLate, "8.00"},
		{"short day is half-day", at(8, 0), at(11, 30), StatusHalfDay, "3.50"},
		{"exactly half standard is present", at(8, 0), at(12, 0), StatusPresent, "4.00"},
		{"late and short stays late", at(10, 0), at(11, 0), StatusLate, "1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Attendance{}
			require.NoError(t, rec.RecordPunchIn(punchAt(tt.in)))
			require.NoError(t, rec.RecordPunchOut(punchAt(tt.out), policy))
			assert.Equal(t, tt.want, rec.Status)
			assert.Equal(t, tt.wantHrs, rec.TotalHours.StringFixed(2))
		})
	}
}

func TestWorkPolicy_GraceAndTimezone(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	policy := WorkPolicy{
		WorkStart:     9 * time.Hour,
		GracePeriod:   15 * time.Minute,
		StandardHours: decimal.NewFromInt(8),
		Location:      wib,
	}

	// 02:10 UTC is 09:10 WIB, inside the grace window.
	assert.False(t, policy.IsLate(time.Date(2026, 10, 12, 2, 10, 0, 0, time.UTC)))
	// 02:16 UTC is 09:16 WIB.
	assert.True(t, policy.IsLate(time.Date(2026, 10, 12, 2, 16, 0, 0, time.UTC)))

	// 20:00 UTC on the 12th is already the 13th in WIB.
	assert.Equal(t, "2026-10-13", policy.Today(time.Date(2026, 10, 12, 20, 0, 0, 0, time.UTC)).String())
}

func TestWorkedHours_NeverNegative(t *testing.T) {
	assert.True(t, WorkedHours(at(10, 0), at(9, 0)).IsZero())
	assert.Equal(t, "0.02", WorkedHours(at(9, 0), at(9, 1)).StringFixed(2))
}

func TestPunchRequest_Validate(t *testing.T) {
	lat, lng := -6.2, 106.8
	badLat := 91.0

	ok := PunchRequest{Latitude: &lat, Longitude: &lng}
	assert.NoError(t, ok.Validate())

	missing := PunchRequest{}
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude is required")
	assert.Contains(t, err.Error(), "longitude is required")

	outOfRange := PunchRequest{Latitude: &badLat, Longitude: &lng}
	assert.ErrorContains(t, outOfRange.Validate(), "latitude must be between -90 and 90")
}

func TestCorrectAttendanceRequest_Validate(t *testing.T) {
	in, out := "2026-10-12T09:00:00Z", "2026-10-12T08:00:00Z"

	req := CorrectAttendanceRequest{PunchInTime: &in, PunchOutTime: &out}
	assert.ErrorContains(t, req.Validate(), "punch_out_time must not be before punch_in_time")

	out = "2026-10-12T17:00:00Z"
	req = CorrectAttendanceRequest{PunchInTime: &in, PunchOutTime: &out}
	require.NoError(t, req.Validate())
	pIn, pOut := req.ParsedTimes()
	require.NotNil(t, pIn)
	require.NotNil(t, pOut)
	assert.Equal(t, 8*time.Hour, pOut.Sub(*pIn))

	empty := CorrectAttendanceRequest{}
	assert.Error(t, empty.Validate())
}
