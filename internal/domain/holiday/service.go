package holiday

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
)

type HolidayService interface {
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	UpdateHoliday(ctx context.Context, req UpdateHolidayRequest) (HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id string) error
	ListHolidays(ctx context.Context, filter HolidayFilter) ([]HolidayResponse, error)

	// Calendar returns a working-day calendar seeded with the holidays in [start, end].
	Calendar(ctx context.Context, start, end calendar.Date) (*calendar.Calendar, error)
}
