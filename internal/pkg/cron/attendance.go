package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
)

// absenceMarker is the part of attendance.AttendanceService the job needs.
type absenceMarker interface {
	MarkAbsences(ctx context.Context, date calendar.Date) (attendance.AbsenceSummary, error)
}

type AttendanceJobs struct {
	attendanceSvc absenceMarker
	location      *time.Location
	interval      time.Duration
	now           func() time.Time
}

func NewAttendanceJobs(attendanceSvc absenceMarker, location *time.Location, interval time.Duration) *AttendanceJobs {
	if location == nil {
		location = time.UTC
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		location:      location,
		interval:      interval,
		now:           time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", j.interval, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees writes absent/leave placeholders for yesterday in the
// office timezone. The service skips employees that already have a row, so
// running every interval is safe.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	yesterday := calendar.Today(j.now(), j.location).AddDays(-1)

	summary, err := j.attendanceSvc.MarkAbsences(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to mark absences for %s: %w", yesterday, err)
	}

	if summary.MarkedAbsent > 0 || summary.MarkedLeave > 0 {
		slog.Info("Cron: Marked absent employees",
			"date", summary.Date.String(),
			"absent", summary.MarkedAbsent,
			"leave", summary.MarkedLeave,
		)
	}
	return nil
}
