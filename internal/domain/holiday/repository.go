package holiday

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	Update(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id string) error
	// ListBetween returns holidays in the inclusive range, ordered by date.
	ListBetween(ctx context.Context, start, end calendar.Date) ([]Holiday, error)
}
