package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date,
	a.punch_in_time, a.punch_in_latitude, a.punch_in_longitude, a.punch_in_device, a.punch_in_ip, a.punch_in_user_agent,
	a.punch_out_time, a.punch_out_latitude, a.punch_out_longitude, a.punch_out_device, a.punch_out_ip, a.punch_out_user_agent,
	a.total_hours, a.status, a.is_approved, a.approved_by, a.approved_at, a.notes,
	a.created_at, a.updated_at,
	e.full_name AS employee_name`

const attendanceFrom = `
	FROM attendances a
	LEFT JOIN employees e ON e.id = a.employee_id`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// punchColumns holds the nullable columns of one punch.
type punchColumns struct {
	Time      *time.Time
	Latitude  *float64
	Longitude *float64
	Device    *string
	IPAddress *string
	UserAgent *string
}

func (p punchColumns) punch() *attendance.Punch {
	if p.Time == nil {
		return nil
	}
	punch := &attendance.Punch{
		Time:      p.Time.UTC(),
		Device:    p.Device,
		IPAddress: p.IPAddress,
		UserAgent: p.UserAgent,
	}
	if p.Latitude != nil {
		punch.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		punch.Longitude = *p.Longitude
	}
	return punch
}

func punchArgs(p *attendance.Punch) []interface{} {
	if p == nil {
		return []interface{}{nil, nil, nil, nil, nil, nil}
	}
	return []interface{}{p.Time, p.Latitude, p.Longitude, p.Device, p.IPAddress, p.UserAgent}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att     attendance.Attendance
		in, out punchColumns
	)
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date,
		&in.Time, &in.Latitude, &in.Longitude, &in.Device, &in.IPAddress, &in.UserAgent,
		&out.Time, &out.Latitude, &out.Longitude, &out.Device, &out.IPAddress, &out.UserAgent,
		&att.TotalHours, &att.Status, &att.IsApproved, &att.ApprovedBy, &att.ApprovedAt, &att.Notes,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.PunchIn = in.punch()
	att.PunchOut = out.punch()
	return att, nil
}

const insertAttendance = `
	INSERT INTO attendances (
		id, employee_id, date,
		punch_in_time, punch_in_latitude, punch_in_longitude, punch_in_device, punch_in_ip, punch_in_user_agent,
		punch_out_time, punch_out_latitude, punch_out_longitude, punch_out_device, punch_out_ip, punch_out_user_agent,
		total_hours, status, is_approved, approved_by, approved_at, notes
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

func insertArgs(att attendance.Attendance) []interface{} {
	args := []interface{}{att.ID, att.EmployeeID, att.Date.String()}
	args = append(args, punchArgs(att.PunchIn)...)
	args = append(args, punchArgs(att.PunchOut)...)
	return append(args, att.TotalHours.String(), string(att.Status), att.IsApproved, att.ApprovedBy, att.ApprovedAt, att.Notes)
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := insertAttendance + ` RETURNING created_at, updated_at`
	err := q.QueryRow(ctx, query, insertArgs(newAttendance)...).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "attendances_employee_date_key") {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, newAttendance attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := insertAttendance + ` ON CONFLICT (employee_id, date) DO NOTHING`
	tag, err := q.Exec(ctx, query, insertArgs(newAttendance)...)
	if err != nil {
		return false, fmt.Errorf("failed to create attendance placeholder: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, `SELECT `+attendanceColumns+attendanceFrom+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date calendar.Date) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + ` WHERE a.employee_id = $1 AND a.date = $2`
	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for date: %w", err)
	}
	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			punch_in_time = $2, punch_in_latitude = $3, punch_in_longitude = $4,
			punch_in_device = $5, punch_in_ip = $6, punch_in_user_agent = $7,
			punch_out_time = $8, punch_out_latitude = $9, punch_out_longitude = $10,
			punch_out_device = $11, punch_out_ip = $12, punch_out_user_agent = $13,
			total_hours = $14, status = $15, is_approved = $16, approved_by = $17, approved_at = $18,
			notes = $19, updated_at = NOW()
		WHERE id = $1
	`

	args := []interface{}{att.ID}
	args = append(args, punchArgs(att.PunchIn)...)
	args = append(args, punchArgs(att.PunchOut)...)
	args = append(args, att.TotalHours.String(), string(att.Status), att.IsApproved, att.ApprovedBy, att.ApprovedAt, att.Notes)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		baseWhere += fmt.Sprintf(" AND e.full_name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.EmployeeName+"%")
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+attendanceFrom+" WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s, a.id LIMIT $%d OFFSET $%d`,
		attendanceColumns, attendanceFrom, baseWhere, attendanceOrderBy(filter), argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	attendances := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating attendances: %w", err)
	}

	return attendances, total, nil
}

func attendanceOrderBy(filter attendance.AttendanceFilter) string {
	field := "a.date"
	switch filter.SortBy {
	case "employee_name":
		field = "e.full_name"
	case "punch_in_time":
		field = "a.punch_in_time"
	case "punch_out_time":
		field = "a.punch_out_time"
	case "status":
		field = "a.status"
	}
	order := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		order = "ASC"
	}
	return field + " " + order
}
