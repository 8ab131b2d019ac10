package settings

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/geo"
)

// OfficeLocation is the singleton office location policy.
type OfficeLocation struct {
	Latitude                  float64
	Longitude                 float64
	MaxDistanceKm             float64
	LocationValidationEnabled bool
	UpdatedBy                 *string
	UpdatedAt                 time.Time
}

// Policy returns the immutable snapshot handed to geo.Validate.
func (o OfficeLocation) Policy() geo.Policy {
	return geo.Policy{
		Office:        geo.Point{Latitude: o.Latitude, Longitude: o.Longitude},
		MaxDistanceKm: o.MaxDistanceKm,
		Enabled:       o.LocationValidationEnabled,
	}
}
