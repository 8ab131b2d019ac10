package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.SQLiteDB
}

func NewSettingsRepository(db *database.SQLiteDB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

func (s *settingsRepository) GetOfficeLocation(ctx context.Context) (settings.OfficeLocation, error) {
	q := GetQuerier(ctx, s.db)

	var loc settings.OfficeLocation
	err := q.QueryRowContext(ctx, `
		SELECT office_latitude, office_longitude, max_distance_km, location_validation_enabled, updated_by, updated_at
		FROM system_config WHERE id = 1`,
	).Scan(&loc.Latitude, &loc.Longitude, &loc.MaxDistanceKm, &loc.LocationValidationEnabled, &loc.UpdatedBy, &loc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings.OfficeLocation{}, settings.ErrOfficeLocationNotConfigured
		}
		return settings.OfficeLocation{}, fmt.Errorf("failed to get office location: %w", err)
	}
	return loc, nil
}

func (s *settingsRepository) UpsertOfficeLocation(ctx context.Context, loc settings.OfficeLocation) (settings.OfficeLocation, error) {
	q := GetQuerier(ctx, s.db)

	loc.UpdatedAt = now()
	_, err := q.ExecContext(ctx, `
		INSERT INTO system_config (id, office_latitude, office_longitude, max_distance_km, location_validation_enabled, updated_by, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			office_latitude = excluded.office_latitude,
			office_longitude = excluded.office_longitude,
			max_distance_km = excluded.max_distance_km,
			location_validation_enabled = excluded.location_validation_enabled,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at`,
		loc.Latitude, loc.Longitude, loc.MaxDistanceKm, loc.LocationValidationEnabled, loc.UpdatedBy, loc.UpdatedAt,
	)
	if err != nil {
		return settings.OfficeLocation{}, fmt.Errorf("failed to save office location: %w", err)
	}
	return loc, nil
}
