package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	transactor   database.Transactor
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(transactor database.Transactor, employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		transactor:   transactor,
		employeeRepo: employeeRepo,
	}
}

// HashPassword returns the bcrypt hash stored for a login password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee.NewEmployeeResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.NewEmployeeResponse(emp))
	}

	return employee.ListEmployeeResponse{
		Employees:  responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newEmployee := employee.Employee{
		ID:           uuid.NewString(),
		EmployeeCode: req.EmployeeCode,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: &hashed,
		Role:         user.Role(req.Role),
		Department:   req.Department,
		ManagerID:    req.ManagerID,
		LeaveBalance: startingBalance(req.LeaveBalance),
		IsActive:     true,
	}

	var created employee.Employee
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if newEmployee.ManagerID != nil {
			manager, err := s.checkManager(ctx, *newEmployee.ManagerID)
			if err != nil {
				return err
			}
			newEmployee.ManagerName = &manager.FullName
		}

		created, err = s.employeeRepo.Create(ctx, newEmployee)
		if err != nil {
			if errors.Is(err, employee.ErrEmailExists) || errors.Is(err, employee.ErrEmployeeCodeExists) {
				return err
			}
			return fmt.Errorf("failed to create employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "employee_id", created.ID, "employee_code", created.EmployeeCode, "role", created.Role)
	return employee.NewEmployeeResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService. An empty manager_id clears the manager.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.LockByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return err
			}
			return fmt.Errorf("failed to get employee: %w", err)
		}

		if req.FullName != nil {
			emp.FullName = *req.FullName
		}
		if req.Email != nil {
			emp.Email = *req.Email
		}
		if req.Role != nil {
			emp.Role = user.Role(*req.Role)
		}
		if req.Department != nil {
			emp.Department = req.Department
		}
		if req.IsActive != nil {
			emp.IsActive = *req.IsActive
		}
		if req.ManagerID != nil {
			if *req.ManagerID == "" {
				emp.ManagerID = nil
				emp.ManagerName = nil
			} else {
				manager, err := s.checkManager(ctx, *req.ManagerID)
				if err != nil {
					return err
				}
				emp.ManagerID = &manager.ID
				emp.ManagerName = &manager.FullName
			}
		}

		updated, err = s.employeeRepo.Update(ctx, emp)
		if err != nil {
			if errors.Is(err, employee.ErrEmailExists) || errors.Is(err, employee.ErrEmployeeNotFound) {
				return err
			}
			return fmt.Errorf("failed to update employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, actorID string, id string) error {
	if actorID == id {
		return employee.ErrCannotDeleteSelf
	}

	if err := s.employeeRepo.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	slog.Info("employee deleted", "employee_id", id, "actor_id", actorID)
	return nil
}

// checkManager accepts only active managers and admins as a reporting line.
func (s *EmployeeServiceImpl) checkManager(ctx context.Context, managerID string) (employee.Employee, error) {
	manager, err := s.employeeRepo.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrInvalidManager
		}
		return employee.Employee{}, fmt.Errorf("failed to get manager: %w", err)
	}
	if !manager.IsActive || !manager.Role.IsManager() {
		return employee.Employee{}, employee.ErrInvalidManager
	}
	return manager, nil
}

// startingBalance overlays the given balances on the defaults.
func startingBalance(in *employee.LeaveBalanceInput) employee.LeaveBalance {
	b := employee.DefaultLeaveBalance()
	if in == nil {
		return b
	}
	set := func(dst *decimal.Decimal, v *float64) {
		if v != nil {
			*dst = decimal.NewFromFloat(*v)
		}
	}
	set(&b.Annual, in.Annual)
	set(&b.Sick, in.Sick)
	set(&b.Personal, in.Personal)
	set(&b.Maternity, in.Maternity)
	set(&b.Paternity, in.Paternity)
	return b
}
