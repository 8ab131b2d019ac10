package settings

import "context"

type SettingsRepository interface {
	// GetOfficeLocation returns ErrOfficeLocationNotConfigured when the row is missing.
	GetOfficeLocation(ctx context.Context) (OfficeLocation, error)
	UpsertOfficeLocation(ctx context.Context, loc OfficeLocation) (OfficeLocation, error)
}
