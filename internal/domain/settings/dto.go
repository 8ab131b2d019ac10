package settings

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type UpdateOfficeLocationRequest struct {
	Latitude                  *float64 `json:"latitude"`
	Longitude                 *float64 `json:"longitude"`
	MaxDistanceKm             *float64 `json:"max_distance_km"`
	LocationValidationEnabled *bool    `json:"location_validation_enabled"`

	ActorID string `json:"-"`
}

func (r *UpdateOfficeLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude == nil || !validator.IsLatitude(*r.Latitude) {
		errs.Add("latitude", "latitude is required and must be between -90 and 90")
	}
	if r.Longitude == nil || !validator.IsLongitude(*r.Longitude) {
		errs.Add("longitude", "longitude is required and must be between -180 and 180")
	}
	if r.MaxDistanceKm == nil || *r.MaxDistanceKm <= 0 {
		errs.Add("max_distance_km", "max_distance_km is required and must be greater than 0")
	}
	if r.LocationValidationEnabled == nil {
		errs.Add("location_validation_enabled", "location_validation_enabled is required")
	}

	return errs.Err()
}

type OfficeLocationResponse struct {
	Latitude                  float64   `json:"latitude"`
	Longitude                 float64   `json:"longitude"`
	MaxDistanceKm             float64   `json:"max_distance_km"`
	LocationValidationEnabled bool      `json:"location_validation_enabled"`
	UpdatedBy                 *string   `json:"updated_by,omitempty"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

func NewOfficeLocationResponse(o OfficeLocation) OfficeLocationResponse {
	return OfficeLocationResponse{
		Latitude:                  o.Latitude,
		Longitude:                 o.Longitude,
		MaxDistanceKm:             o.MaxDistanceKm,
		LocationValidationEnabled: o.LocationValidationEnabled,
		UpdatedBy:                 o.UpdatedBy,
		UpdatedAt:                 o.UpdatedAt,
	}
}
