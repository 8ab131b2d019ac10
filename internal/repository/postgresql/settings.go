package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// GetOfficeLocation implements settings.SettingsRepository.
func (s *settingsRepositoryImpl) GetOfficeLocation(ctx context.Context) (settings.OfficeLocation, error) {
	q := GetQuerier(ctx, s.db)

	var loc settings.OfficeLocation
	err := q.QueryRow(ctx, `
		SELECT office_latitude, office_longitude, max_distance_km, location_validation_enabled, updated_by, updated_at
		FROM system_config WHERE id = 1
	`).Scan(&loc.Latitude, &loc.Longitude, &loc.MaxDistanceKm, &loc.LocationValidationEnabled, &loc.UpdatedBy, &loc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.OfficeLocation{}, settings.ErrOfficeLocationNotConfigured
		}
		return settings.OfficeLocation{}, fmt.Errorf("failed to get office location: %w", err)
	}
	return loc, nil
}

// UpsertOfficeLocation implements settings.SettingsRepository.
func (s *settingsRepositoryImpl) UpsertOfficeLocation(ctx context.Context, loc settings.OfficeLocation) (settings.OfficeLocation, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO system_config (id, office_latitude, office_longitude, max_distance_km, location_validation_enabled, updated_by, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			office_latitude = EXCLUDED.office_latitude,
			office_longitude = EXCLUDED.office_longitude,
			max_distance_km = EXCLUDED.max_distance_km,
			location_validation_enabled = EXCLUDED.location_validation_enabled,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`
	err := q.QueryRow(ctx, query,
		loc.Latitude, loc.Longitude, loc.MaxDistanceKm, loc.LocationValidationEnabled, loc.UpdatedBy,
	).Scan(&loc.UpdatedAt)
	if err != nil {
		return settings.OfficeLocation{}, fmt.Errorf("failed to save office location: %w", err)
	}
	return loc, nil
}
