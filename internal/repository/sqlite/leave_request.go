package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.total_days,
	lr.is_half_day, lr.half_day_type, lr.reason, lr.priority, lr.status,
	lr.approved_by, lr.approved_at, lr.rejection_reason, lr.cancelled_by, lr.cancelled_at,
	lr.created_at, lr.updated_at,
	e.full_name AS employee_name`

const leaveRequestFrom = `
	FROM leave_requests lr
	LEFT JOIN employees e ON e.id = lr.employee_id`

type leaveRequestRepository struct {
	db *database.SQLiteDB
}

func NewLeaveRequestRepository(db *database.SQLiteDB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

func scanLeaveRequest(row rowScanner) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.LeaveType, &r.StartDate, &r.EndDate, &r.TotalDays,
		&r.IsHalfDay, &r.HalfDayType, &r.Reason, &r.Priority, &r.Status,
		&r.ApprovedBy, &r.ApprovedAt, &r.RejectionReason, &r.CancelledBy, &r.CancelledAt,
		&r.CreatedAt, &r.UpdatedAt,
		&r.EmployeeName,
	)
	return r, err
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	ts := now()
	_, err := q.ExecContext(ctx, `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, total_days,
			is_half_day, half_day_type, reason, priority, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		request.ID, request.EmployeeID, string(request.LeaveType),
		request.StartDate.String(), request.EndDate.String(), request.TotalDays.InexactFloat64(),
		request.IsHalfDay, request.HalfDayType, request.Reason, string(request.Priority), string(request.Status),
		ts, ts,
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	request.CreatedAt, request.UpdatedAt = ts, ts
	return request, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	request, err := scanLeaveRequest(q.QueryRowContext(ctx, `SELECT `+leaveRequestColumns+leaveRequestFrom+` WHERE lr.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return request, nil
}

// LockByID is a plain read under the IMMEDIATE transaction lock.
func (r *leaveRequestRepository) LockByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepository) UpdateDecision(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `
		UPDATE leave_requests
		SET status = ?, approved_by = ?, approved_at = ?, rejection_reason = ?,
		    cancelled_by = ?, cancelled_at = ?, updated_at = ?
		WHERE id = ?`,
		string(request.Status), request.ApprovedBy, request.ApprovedAt, request.RejectionReason,
		request.CancelledBy, request.CancelledAt, now(), request.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"1=1"}
	args := []interface{}{}
	add := func(clause string, arg interface{}) {
		where = append(where, clause)
		args = append(args, arg)
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add("lr.employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != nil && *filter.Status != "" {
		add("lr.status = ?", *filter.Status)
	}
	if filter.LeaveType != nil && *filter.LeaveType != "" {
		add("lr.leave_type = ?", *filter.LeaveType)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		add("lr.end_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		add("lr.start_date <= ?", *filter.EndDate)
	}
	baseWhere := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM leave_requests lr WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + ` WHERE ` + baseWhere +
		` ORDER BY lr.created_at DESC, lr.id LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	requests, err := r.query(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *leaveRequestRepository) FindOverlapping(ctx context.Context, employeeID string, start, end calendar.Date) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + `
		WHERE lr.employee_id = ?
		  AND lr.status IN ('pending', 'approved')
		  AND lr.start_date <= ?
		  AND lr.end_date >= ?
		ORDER BY lr.start_date`
	return r.query(ctx, q, query, employeeID, end.String(), start.String())
}

func (r *leaveRequestRepository) ListApprovedCovering(ctx context.Context, date calendar.Date) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	d := date.String()
	query := `SELECT ` + leaveRequestColumns + leaveRequestFrom + `
		WHERE lr.status = 'approved'
		  AND lr.start_date <= ?
		  AND lr.end_date >= ?
		ORDER BY lr.employee_id`
	return r.query(ctx, q, query, d, d)
}

func (r *leaveRequestRepository) query(ctx context.Context, q database.SQLQuerier, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		request, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave requests: %w", err)
	}
	return requests, nil
}
