package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

const employeeColumns = `
	e.id, e.employee_code, e.full_name, e.email, e.password_hash, e.role, e.department, e.manager_id,
	e.annual_leave_balance, e.sick_leave_balance, e.personal_leave_balance,
	e.maternity_leave_balance, e.paternity_leave_balance,
	e.is_active, e.created_at, e.updated_at, e.deleted_at,
	m.full_name AS manager_name`

const employeeFrom = `
	FROM employees e
	LEFT JOIN employees m ON m.id = e.manager_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type employeeRepository struct {
	db *database.SQLiteDB
}

func NewEmployeeRepository(db *database.SQLiteDB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.PasswordHash, &emp.Role, &emp.Department, &emp.ManagerID,
		&emp.LeaveBalance.Annual, &emp.LeaveBalance.Sick, &emp.LeaveBalance.Personal,
		&emp.LeaveBalance.Maternity, &emp.LeaveBalance.Paternity,
		&emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt, &emp.DeletedAt,
		&emp.ManagerName,
	)
	return emp, err
}

func (r *employeeRepository) getOne(ctx context.Context, where string, arg interface{}) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + employeeFrom + ` WHERE ` + where + ` AND e.deleted_at IS NULL`
	emp, err := scanEmployee(q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "e.id = ?", id)
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.getOne(ctx, "e.email = ?", email)
}

// LockByID is a plain read: the IMMEDIATE transaction already holds the write lock.
func (r *employeeRepository) LockByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.getOne(ctx, "e.id = ?", id)
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	ts := now()
	b := newEmployee.LeaveBalance
	_, err := q.ExecContext(ctx, `
		INSERT INTO employees (
			id, employee_code, full_name, email, password_hash, role, department, manager_id,
			annual_leave_balance, sick_leave_balance, personal_leave_balance,
			maternity_leave_balance, paternity_leave_balance, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newEmployee.ID, newEmployee.EmployeeCode, newEmployee.FullName, newEmployee.Email,
		newEmployee.PasswordHash, string(newEmployee.Role), newEmployee.Department, newEmployee.ManagerID,
		b.Annual.InexactFloat64(), b.Sick.InexactFloat64(), b.Personal.InexactFloat64(),
		b.Maternity.InexactFloat64(), b.Paternity.InexactFloat64(),
		newEmployee.IsActive, ts, ts,
	)
	if err != nil {
		return employee.Employee{}, mapEmployeeWriteError(err, "create")
	}

	newEmployee.CreatedAt, newEmployee.UpdatedAt = ts, ts
	return newEmployee, nil
}

func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	ts := now()
	res, err := q.ExecContext(ctx, `
		UPDATE employees
		SET full_name = ?, email = ?, role = ?, department = ?, manager_id = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		emp.FullName, emp.Email, string(emp.Role), emp.Department, emp.ManagerID, emp.IsActive, ts, emp.ID,
	)
	if err != nil {
		return employee.Employee{}, mapEmployeeWriteError(err, "update")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	emp.UpdatedAt = ts
	return emp, nil
}

func mapEmployeeWriteError(err error, op string) error {
	switch {
	case isUniqueViolation(err, "employees.email"):
		return employee.ErrEmailExists
	case isUniqueViolation(err, "employees.employee_code"):
		return employee.ErrEmployeeCodeExists
	}
	return fmt.Errorf("failed to %s employee: %w", op, err)
}

func (r *employeeRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	at = at.UTC()
	res, err := q.ExecContext(ctx, `
		UPDATE employees SET deleted_at = ?, is_active = 0, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, at, at, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"e.deleted_at IS NULL"}
	args := []interface{}{}

	if !filter.IncludeInactive {
		where = append(where, "e.is_active = 1")
	}
	if filter.Search != nil && *filter.Search != "" {
		like := "%" + *filter.Search + "%"
		where = append(where, "(e.full_name LIKE ? OR e.email LIKE ? OR e.employee_code LIKE ?)")
		args = append(args, like, like, like)
	}
	if filter.Role != nil && *filter.Role != "" {
		where = append(where, "e.role = ?")
		args = append(args, *filter.Role)
	}
	if filter.Department != nil && *filter.Department != "" {
		where = append(where, "e.department = ?")
		args = append(args, *filter.Department)
	}
	baseWhere := strings.Join(where, " AND ")

	var total int64
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees e WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := `SELECT ` + employeeColumns + employeeFrom + ` WHERE ` + baseWhere + ` ORDER BY e.full_name ASC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	emps, err := r.query(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return emps, total, nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + employeeColumns + employeeFrom + `
		WHERE e.deleted_at IS NULL AND e.is_active = 1
		ORDER BY e.employee_code`
	return r.query(ctx, q, query)
}

func (r *employeeRepository) query(ctx context.Context, q database.SQLQuerier, query string, args ...interface{}) ([]employee.Employee, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	emps := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		emps = append(emps, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}
	return emps, nil
}

// AdjustLeaveBalance applies delta only when the result stays non-negative.
func (r *employeeRepository) AdjustLeaveBalance(ctx context.Context, id string, leaveType string, delta decimal.Decimal) (decimal.Decimal, error) {
	col, ok := employee.BalanceColumn(leaveType)
	if !ok {
		return decimal.Zero, employee.ErrUntrackedLeaveType
	}
	q := GetQuerier(ctx, r.db)

	query := strings.ReplaceAll(`
		UPDATE employees
		SET {col} = {col} + ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL AND {col} + ? >= 0
		RETURNING {col}`, "{col}", col)

	d := delta.InexactFloat64()
	var balance decimal.Decimal
	err := q.QueryRowContext(ctx, query, d, now(), id, d).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("failed to adjust leave balance: %w", err)
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return decimal.Zero, getErr
	}
	return decimal.Zero, employee.ErrNegativeBalance
}
