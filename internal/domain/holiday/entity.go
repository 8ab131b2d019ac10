package holiday

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
)

type Holiday struct {
	ID          string
	Date        calendar.Date
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
