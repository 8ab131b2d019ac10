package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
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

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
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

func (e *employeeRepositoryImpl) getOne(ctx context.Context, where string, suffix string, arg interface{}) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + employeeFrom + ` WHERE ` + where + ` AND e.deleted_at IS NULL ` + suffix

	emp, err := scanEmployee(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.getOne(ctx, "e.id = $1", "", id)
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return e.getOne(ctx, "LOWER(e.email) = LOWER($1)", "", email)
}

// LockByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) LockByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.getOne(ctx, "e.id = $1", "FOR UPDATE OF e", id)
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			id, employee_code, full_name, email, password_hash, role, department, manager_id,
			annual_leave_balance, sick_leave_balance, personal_leave_balance,
			maternity_leave_balance, paternity_leave_balance, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	b := newEmployee.LeaveBalance
	err := q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.EmployeeCode, newEmployee.FullName, newEmployee.Email,
		newEmployee.PasswordHash, string(newEmployee.Role), newEmployee.Department, newEmployee.ManagerID,
		b.Annual.String(), b.Sick.String(), b.Personal.String(), b.Maternity.String(), b.Paternity.String(), newEmployee.IsActive,
	).Scan(&newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		return employee.Employee{}, mapEmployeeWriteError(err, "create")
	}

	return newEmployee, nil
}

// Update implements employee.EmployeeRepository. Balances are not touched here.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET full_name = $2, email = $3, role = $4, department = $5, manager_id = $6,
		    is_active = $7, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.ID, emp.FullName, emp.Email, string(emp.Role), emp.Department, emp.ManagerID, emp.IsActive,
	).Scan(&emp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, mapEmployeeWriteError(err, "update")
	}

	return emp, nil
}

func mapEmployeeWriteError(err error, op string) error {
	switch {
	case isUniqueViolation(err, "employees_email_key"):
		return employee.ErrEmailExists
	case isUniqueViolation(err, "employees_employee_code_key"):
		return employee.ErrEmployeeCodeExists
	}
	return fmt.Errorf("failed to %s employee: %w", op, err)
}

// SoftDelete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SoftDelete(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET deleted_at = $2, is_active = FALSE, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to soft delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	baseWhere := "e.deleted_at IS NULL"
	args := []interface{}{}
	argIdx := 1

	if !filter.IncludeInactive {
		baseWhere += " AND e.is_active = TRUE"
	}
	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (e.full_name ILIKE $%d OR e.email ILIKE $%d OR e.employee_code ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Role != nil && *filter.Role != "" {
		baseWhere += fmt.Sprintf(" AND e.role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.Department != nil && *filter.Department != "" {
		baseWhere += fmt.Sprintf(" AND e.department = $%d", argIdx)
		args = append(args, *filter.Department)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees e WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY e.full_name ASC LIMIT $%d OFFSET $%d`,
		employeeColumns, employeeFrom, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	emps, err := e.queryEmployees(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return emps, total, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)
	query := `SELECT ` + employeeColumns + employeeFrom + `
		WHERE e.deleted_at IS NULL AND e.is_active = TRUE
		ORDER BY e.employee_code`
	return e.queryEmployees(ctx, q, query)
}

func (e *employeeRepositoryImpl) queryEmployees(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]employee.Employee, error) {
	rows, err := q.Query(ctx, query, args...)
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

// AdjustLeaveBalance implements employee.EmployeeRepository. The WHERE guard
// keeps the balance non-negative even for writers that skipped the row lock.
func (e *employeeRepositoryImpl) AdjustLeaveBalance(ctx context.Context, id string, leaveType string, delta decimal.Decimal) (decimal.Decimal, error) {
	col, ok := employee.BalanceColumn(leaveType)
	if !ok {
		return decimal.Zero, employee.ErrUntrackedLeaveType
	}
	q := GetQuerier(ctx, e.db)

	query := strings.ReplaceAll(`
		UPDATE employees
		SET {col} = {col} + $2::numeric, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND {col} + $2::numeric >= 0
		RETURNING {col}
	`, "{col}", col)

	var balance decimal.Decimal
	err := q.QueryRow(ctx, query, id, delta.String()).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("failed to adjust leave balance: %w", err)
	}

	// Distinguish a missing employee from a rejected debit.
	if _, getErr := e.GetByID(ctx, id); getErr != nil {
		return decimal.Zero, getErr
	}
	return decimal.Zero, employee.ErrNegativeBalance
}
