package settings

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/geo"
)

type SettingsService interface {
	GetOfficeLocation(ctx context.Context) (OfficeLocationResponse, error)
	UpdateOfficeLocation(ctx context.Context, req UpdateOfficeLocationRequest) (OfficeLocationResponse, error)
	// EnsureOfficeLocation stores defaults only if nothing is stored yet.
	EnsureOfficeLocation(ctx context.Context, defaults OfficeLocation) error
	// CurrentPolicy is what the punch flow validates against.
	CurrentPolicy(ctx context.Context) (geo.Policy, error)
}
