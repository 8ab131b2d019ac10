package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/geo"
)

type SettingsServiceImpl struct {
	settingsRepo settings.SettingsRepository
}

func NewSettingsService(settingsRepo settings.SettingsRepository) settings.SettingsService {
	return &SettingsServiceImpl{settingsRepo: settingsRepo}
}

// GetOfficeLocation implements settings.SettingsService.
func (s *SettingsServiceImpl) GetOfficeLocation(ctx context.Context) (settings.OfficeLocationResponse, error) {
	loc, err := s.settingsRepo.GetOfficeLocation(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrOfficeLocationNotConfigured) {
			return settings.OfficeLocationResponse{}, err
		}
		return settings.OfficeLocationResponse{}, fmt.Errorf("failed to get office location: %w", err)
	}
	return settings.NewOfficeLocationResponse(loc), nil
}

// UpdateOfficeLocation implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateOfficeLocation(ctx context.Context, req settings.UpdateOfficeLocationRequest) (settings.OfficeLocationResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.OfficeLocationResponse{}, err
	}

	loc := settings.OfficeLocation{
		Latitude:                  *req.Latitude,
		Longitude:                 *req.Longitude,
		MaxDistanceKm:             *req.MaxDistanceKm,
		LocationValidationEnabled: *req.LocationValidationEnabled,
		UpdatedAt:                 time.Now().UTC(),
	}
	if req.ActorID != "" {
		loc.UpdatedBy = &req.ActorID
	}

	saved, err := s.settingsRepo.UpsertOfficeLocation(ctx, loc)
	if err != nil {
		return settings.OfficeLocationResponse{}, fmt.Errorf("failed to update office location: %w", err)
	}

	slog.Info("office location updated",
		"latitude", saved.Latitude,
		"longitude", saved.Longitude,
		"max_distance_km", saved.MaxDistanceKm,
		"enabled", saved.LocationValidationEnabled,
		"updated_by", req.ActorID,
	)

	return settings.NewOfficeLocationResponse(saved), nil
}

// EnsureOfficeLocation implements settings.SettingsService.
func (s *SettingsServiceImpl) EnsureOfficeLocation(ctx context.Context, defaults settings.OfficeLocation) error {
	_, err := s.settingsRepo.GetOfficeLocation(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, settings.ErrOfficeLocationNotConfigured) {
		return fmt.Errorf("failed to read office location: %w", err)
	}

	defaults.UpdatedBy = nil
	defaults.UpdatedAt = time.Now().UTC()
	if _, err := s.settingsRepo.UpsertOfficeLocation(ctx, defaults); err != nil {
		return fmt.Errorf("failed to seed office location: %w", err)
	}
	slog.Info("office location seeded from config", "max_distance_km", defaults.MaxDistanceKm)
	return nil
}

// CurrentPolicy implements settings.SettingsService.
func (s *SettingsServiceImpl) CurrentPolicy(ctx context.Context) (geo.Policy, error) {
	loc, err := s.settingsRepo.GetOfficeLocation(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrOfficeLocationNotConfigured) {
			return geo.Policy{}, err
		}
		return geo.Policy{}, fmt.Errorf("failed to load office location policy: %w", err)
	}
	return loc.Policy(), nil
}
