package settings_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite/sqlitetest"
	settingsService "github.com/cmlabs-hris/hris-attendance-go/internal/service/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfficeLocation(t *testing.T) {
	ctx := context.Background()
	svc := settingsService.NewSettingsService(sqlitetest.NewStore(t).Settings)

	_, err := svc.CurrentPolicy(ctx)
	assert.True(t, errors.Is(err, settings.ErrOfficeLocationNotConfigured), "unconfigured office must not validate")

	seed := settings.OfficeLocation{Latitude: -6.2088, Longitude: 106.8456, MaxDistanceKm: 100, LocationValidationEnabled: true}
	require.NoError(t, svc.EnsureOfficeLocation(ctx, seed))

	lat, lng, dist, enabled := -7.25, 112.75, 0.5, false
	updated, err := svc.UpdateOfficeLocation(ctx, settings.UpdateOfficeLocationRequest{
		Latitude: &lat, Longitude: &lng, MaxDistanceKm: &dist, LocationValidationEnabled: &enabled,
	})
	require.NoError(t, err)
	assert.Equal(t, lat, updated.Latitude)

	// Seeding again never overwrites what an admin configured.
	require.NoError(t, svc.EnsureOfficeLocation(ctx, seed))

	policy, err := svc.CurrentPolicy(ctx)
	require.NoError(t, err)
	assert.Equal(t, lat, policy.Office.Latitude)
	assert.Equal(t, 0.5, policy.MaxDistanceKm)
	assert.False(t, policy.Enabled)

	got, err := svc.GetOfficeLocation(ctx)
	require.NoError(t, err)
	assert.False(t, got.LocationValidationEnabled)
}

func TestUpdateOfficeLocation_Validation(t *testing.T) {
	svc := settingsService.NewSettingsService(sqlitetest.NewStore(t).Settings)

	lat, zero := 120.0, 0.0
	_, err := svc.UpdateOfficeLocation(context.Background(), settings.UpdateOfficeLocationRequest{Latitude: &lat, MaxDistanceKm: &zero})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude is required and must be between -90 and 90")
	assert.Contains(t, err.Error(), "max_distance_km")
	assert.Contains(t, err.Error(), "location_validation_enabled is required")
}
