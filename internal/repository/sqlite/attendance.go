package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
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
	db *database.SQLiteDB
}

func NewAttendanceRepository(db *database.SQLiteDB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

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
	return []interface{}{p.Time.UTC(), p.Latitude, p.Longitude, p.Device, p.IPAddress, p.UserAgent}
}

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var (
		att     attendance.Attendance
		in, out punchColumns
		date    string
	)
	err := row.Scan(
		&att.ID, &att.EmployeeID, &date,
		&in.Time, &in.Latitude, &in.Longitude, &in.Device, &in.IPAddress, &in.UserAgent,
		&out.Time, &out.Latitude, &out.Longitude, &out.Device, &out.IPAddress, &out.UserAgent,
		&att.TotalHours, &att.Status, &att.IsApproved, &att.ApprovedBy, &att.ApprovedAt, &att.Notes,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if att.Date, err = calendar.Parse(date); err != nil {
		return attendance.Attendance{}, fmt.Errorf("bad attendance date %q: %w", date, err)
	}
	att.PunchIn = in.punch()
	att.PunchOut = out.punch()
	// REAL storage: keep the 2dp contract.
	att.TotalHours = att.TotalHours.Round(2)
	return att, nil
}

const insertAttendance = `
	INSERT %s INTO attendances (
		id, employee_id, date,
		punch_in_time, punch_in_latitude, punch_in_longitude, punch_in_device, punch_in_ip, punch_in_user_agent,
		punch_out_time, punch_out_latitude, punch_out_longitude, punch_out_device, punch_out_ip, punch_out_user_agent,
		total_hours, status, is_approved, approved_by, approved_at, notes, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertArgs(att attendance.Attendance, ts time.Time) []interface{} {
	args := []interface{}{att.ID, att.EmployeeID, att.Date.String()}
	args = append(args, punchArgs(att.PunchIn)...)
	args = append(args, punchArgs(att.PunchOut)...)
	return append(args,
		att.TotalHours.InexactFloat64(), string(att.Status), att.IsApproved, att.ApprovedBy, att.ApprovedAt, att.Notes,
		ts, ts,
	)
}

func (r *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	ts := now()
	if _, err := q.ExecContext(ctx, fmt.Sprintf(insertAttendance, ""), insertArgs(newAttendance, ts)...); err != nil {
		if isUniqueViolation(err, "attendances.employee_id") {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	newAttendance.CreatedAt, newAttendance.UpdatedAt = ts, ts
	return newAttendance, nil
}

func (r *attendanceRepository) CreateIfAbsent(ctx context.Context, newAttendance attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, fmt.Sprintf(insertAttendance, "OR IGNORE"), insertArgs(newAttendance, now())...)
	if err != nil {
		return false, fmt.Errorf("failed to create attendance placeholder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to create attendance placeholder: %w", err)
	}
	return n == 1, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	att, err := scanAttendance(q.QueryRowContext(ctx, `SELECT `+attendanceColumns+attendanceFrom+` WHERE a.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date calendar.Date) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + attendanceFrom + ` WHERE a.employee_id = ? AND a.date = ?`
	att, err := scanAttendance(q.QueryRowContext(ctx, query, employeeID, date.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for date: %w", err)
	}
	return &att, nil
}

func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	args := punchArgs(att.PunchIn)
	args = append(args, punchArgs(att.PunchOut)...)
	args = append(args,
		att.TotalHours.InexactFloat64(), string(att.Status), att.IsApproved, att.ApprovedBy, att.ApprovedAt, att.Notes,
		now(), att.ID,
	)

	res, err := q.ExecContext(ctx, `
		UPDATE attendances SET
			punch_in_time = ?, punch_in_latitude = ?, punch_in_longitude = ?,
			punch_in_device = ?, punch_in_ip = ?, punch_in_user_agent = ?,
			punch_out_time = ?, punch_out_latitude = ?, punch_out_longitude = ?,
			punch_out_device = ?, punch_out_ip = ?, punch_out_user_agent = ?,
			total_hours = ?, status = ?, is_approved = ?, approved_by = ?, approved_at = ?,
			notes = ?, updated_at = ?
		WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"1=1"}
	args := []interface{}{}
	add := func(clause string, arg interface{}) {
		where = append(where, clause)
		args = append(args, arg)
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add("a.employee_id = ?", *filter.EmployeeID)
	}
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		add("e.full_name LIKE ?", "%"+*filter.EmployeeName+"%")
	}
	if filter.Date != nil && *filter.Date != "" {
		add("a.date = ?", *filter.Date)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		add("a.date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		add("a.date <= ?", *filter.EndDate)
	}
	if filter.Status != nil && *filter.Status != "" {
		add("a.status = ?", *filter.Status)
	}
	baseWhere := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*)"+attendanceFrom+" WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := `SELECT ` + attendanceColumns + attendanceFrom + ` WHERE ` + baseWhere +
		` ORDER BY ` + attendanceOrderBy(filter) + `, a.id LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.QueryContext(ctx, query, args...)
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
