package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type LeaveBalanceInput struct {
	Annual    *float64 `json:"annual,omitempty"`
	Sick      *float64 `json:"sick,omitempty"`
	Personal  *float64 `json:"personal,omitempty"`
	Maternity *float64 `json:"maternity,omitempty"`
	Paternity *float64 `json:"paternity,omitempty"`
}

func (in *LeaveBalanceInput) validate(errs *validator.ValidationErrors) {
	if in == nil {
		return
	}
	check := func(field string, v *float64) {
		if v == nil {
			return
		}
		if *v < 0 {
			errs.Add("leave_balance."+field, field+" balance must not be negative")
		}
		// Half-day granularity, matching NUMERIC(6,1) storage.
		if *v*2 != float64(int64(*v*2)) {
			errs.Add("leave_balance."+field, field+" balance must be a multiple of 0.5")
		}
	}
	check(BalanceAnnual, in.Annual)
	check(BalanceSick, in.Sick)
	check(BalancePersonal, in.Personal)
	check(BalanceMaternity, in.Maternity)
	check(BalancePaternity, in.Paternity)
}

type CreateEmployeeRequest struct {
	EmployeeCode string             `json:"employee_code"`
	FullName     string             `json:"full_name"`
	Email        string             `json:"email"`
	Password     string             `json:"password"`
	Role         string             `json:"role"`
	Department   *string            `json:"department,omitempty"`
	ManagerID    *string            `json:"manager_id,omitempty"`
	LeaveBalance *LeaveBalanceInput `json:"leave_balance,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is required",
		})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}
	if len(r.FullName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 255 characters",
		})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}
	if r.Role == "" {
		r.Role = string(user.RoleEmployee)
	}
	if !user.Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: employee, manager, admin",
		})
	}
	if r.ManagerID != nil && !validator.IsValidUUID(*r.ManagerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_id",
			Message: "manager_id must be a valid UUID",
		})
	}
	r.LeaveBalance.validate(&errs)

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return errs.Err()
}

type UpdateEmployeeRequest struct {
	ID         string  `json:"-"`
	FullName   *string `json:"full_name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Role       *string `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
	ManagerID  *string `json:"manager_id,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs.Add("full_name", "full_name must not be empty")
	}
	if r.Email != nil {
		if !validator.IsValidEmail(*r.Email) {
			errs.Add("email", "email must be a valid email address")
		} else {
			lower := strings.ToLower(strings.TrimSpace(*r.Email))
			r.Email = &lower
		}
	}
	if r.Role != nil && !user.Role(*r.Role).IsValid() {
		errs.Add("role", "role must be one of: employee, manager, admin")
	}
	if r.ManagerID != nil && *r.ManagerID != "" && !validator.IsValidUUID(*r.ManagerID) {
		errs.Add("manager_id", "manager_id must be a valid UUID")
	}
	if r.ManagerID != nil && *r.ManagerID == r.ID {
		errs.Add("manager_id", "employee cannot be their own manager")
	}

	return errs.Err()
}

type EmployeeFilter struct {
	Search          *string
	Role            *string
	Department      *string
	IncludeInactive bool
	Page            int
	Limit           int
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.Role != nil && !user.Role(*f.Role).IsValid() {
		errs.Add("role", "role must be one of: employee, manager, admin")
	}

	return errs.Err()
}

type LeaveBalanceResponse struct {
	Annual    float64 `json:"annual"`
	Sick      float64 `json:"sick"`
	Personal  float64 `json:"personal"`
	Maternity float64 `json:"maternity"`
	Paternity float64 `json:"paternity"`
}

type EmployeeResponse struct {
	ID           string               `json:"id"`
	EmployeeCode string               `json:"employee_code"`
	FullName     string               `json:"full_name"`
	Email        string               `json:"email"`
	Role         string               `json:"role"`
	Department   *string              `json:"department,omitempty"`
	ManagerID    *string              `json:"manager_id,omitempty"`
	ManagerName  *string              `json:"manager_name,omitempty"`
	LeaveBalance LeaveBalanceResponse `json:"leave_balance"`
	IsActive     bool                 `json:"is_active"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

func NewLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		Annual:    b.Annual.InexactFloat64(),
		Sick:      b.Sick.InexactFloat64(),
		Personal:  b.Personal.InexactFloat64(),
		Maternity: b.Maternity.InexactFloat64(),
		Paternity: b.Paternity.InexactFloat64(),
	}
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
		Email:        e.Email,
		Role:         string(e.Role),
		Department:   e.Department,
		ManagerID:    e.ManagerID,
		ManagerName:  e.ManagerName,
		LeaveBalance: NewLeaveBalanceResponse(e.LeaveBalance),
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
