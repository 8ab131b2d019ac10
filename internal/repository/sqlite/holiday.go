package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.SQLiteDB
}

func NewHolidayRepository(db *database.SQLiteDB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

func (h *holidayRepository) Create(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	ts := now()
	_, err := q.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		hol.ID, hol.Date.String(), hol.Name, hol.Description, ts, ts)
	if err != nil {
		if isUniqueViolation(err, "holidays.date") {
			return holiday.Holiday{}, holiday.ErrHolidayDateExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	hol.CreatedAt, hol.UpdatedAt = ts, ts
	return hol, nil
}

func (h *holidayRepository) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	var hol holiday.Holiday
	err := q.QueryRowContext(ctx, `
		SELECT id, date, name, description, created_at, updated_at
		FROM holidays WHERE id = ?`, id,
	).Scan(&hol.ID, &hol.Date, &hol.Name, &hol.Description, &hol.CreatedAt, &hol.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, fmt.Errorf("failed to get holiday: %w", err)
	}
	return hol, nil
}

func (h *holidayRepository) Update(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	ts := now()
	res, err := q.ExecContext(ctx, `
		UPDATE holidays SET date = ?, name = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		hol.Date.String(), hol.Name, hol.Description, ts, hol.ID)
	if err != nil {
		if isUniqueViolation(err, "holidays.date") {
			return holiday.Holiday{}, holiday.ErrHolidayDateExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to update holiday: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	hol.UpdatedAt = ts
	return hol, nil
}

func (h *holidayRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, h.db)

	res, err := q.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

func (h *holidayRepository) ListBetween(ctx context.Context, start, end calendar.Date) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	rows, err := q.QueryContext(ctx, `
		SELECT id, date, name, description, created_at, updated_at
		FROM holidays
		WHERE date >= ? AND date <= ?
		ORDER BY date`, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	holidays := []holiday.Holiday{}
	for rows.Next() {
		var hol holiday.Holiday
		if err := rows.Scan(&hol.ID, &hol.Date, &hol.Name, &hol.Description, &hol.CreatedAt, &hol.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, hol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holidays: %w", err)
	}
	return holidays, nil
}
