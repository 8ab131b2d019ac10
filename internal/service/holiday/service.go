package holiday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/google/uuid"
)

type HolidayServiceImpl struct {
	holidayRepo holiday.HolidayRepository
}

func NewHolidayService(holidayRepo holiday.HolidayRepository) holiday.HolidayService {
	return &HolidayServiceImpl{holidayRepo: holidayRepo}
}

// CreateHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) CreateHoliday(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	now := time.Now().UTC()
	created, err := s.holidayRepo.Create(ctx, holiday.Holiday{
		ID:          uuid.NewString(),
		Date:        req.Date,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, holiday.ErrHolidayDateExists) {
			return holiday.HolidayResponse{}, err
		}
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	slog.Info("holiday created", "date", created.Date.String(), "name", created.Name)
	return holiday.NewHolidayResponse(created), nil
}

// UpdateHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) UpdateHoliday(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	existing, err := s.holidayRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, holiday.ErrHolidayNotFound) {
			return holiday.HolidayResponse{}, err
		}
		return holiday.HolidayResponse{}, fmt.Errorf("failed to get holiday: %w", err)
	}

	if req.Date != nil {
		existing.Date = *req.Date
	}
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.holidayRepo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, holiday.ErrHolidayDateExists) || errors.Is(err, holiday.ErrHolidayNotFound) {
			return holiday.HolidayResponse{}, err
		}
		return holiday.HolidayResponse{}, fmt.Errorf("failed to update holiday: %w", err)
	}

	return holiday.NewHolidayResponse(updated), nil
}

// DeleteHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	if err := s.holidayRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, holiday.ErrHolidayNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	slog.Info("holiday deleted", "id", id)
	return nil
}

// ListHolidays implements holiday.HolidayService. A zero year means the current year.
func (s *HolidayServiceImpl) ListHolidays(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	year := filter.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	start := calendar.NewDate(year, time.January, 1)
	end := calendar.NewDate(year, time.December, 31)

	holidays, err := s.holidayRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, holiday.NewHolidayResponse(h))
	}
	return responses, nil
}

// Calendar implements holiday.HolidayService.
func (s *HolidayServiceImpl) Calendar(ctx context.Context, start, end calendar.Date) (*calendar.Calendar, error) {
	holidays, err := s.holidayRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	dates := make([]calendar.Date, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.Date)
	}
	return calendar.New(dates), nil
}
