package employee_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite/sqlitetest"
	employeeService "github.com/cmlabs-hris/hris-attendance-go/internal/service/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (employee.EmployeeService, employee.EmployeeRepository) {
	store := sqlitetest.NewStore(t)
	return employeeService.NewEmployeeService(store.Transactor, store.Employees), store.Employees
}

func createReq(code, role string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		EmployeeCode: code,
		FullName:     "Employee " + code,
		Email:        code + "@Example.com",
		Password:     "correct-horse",
		Role:         role,
	}
}

func TestCreateEmployee(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	mgr, err := svc.CreateEmployee(ctx, createReq("M001", "manager"))
	require.NoError(t, err)

	annual := 12.5
	req := createReq("E001", "")
	req.ManagerID = &mgr.ID
	req.LeaveBalance = &employee.LeaveBalanceInput{Annual: &annual}

	emp, err := svc.CreateEmployee(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "e001@example.com", emp.Email)
	assert.Equal(t, "employee", emp.Role)
	assert.Equal(t, mgr.FullName, *emp.ManagerName)
	assert.Equal(t, 12.5, emp.LeaveBalance.Annual)
	assert.Equal(t, 10.0, emp.LeaveBalance.Sick, "unset balances fall back to defaults")

	stored, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("correct-horse")))

	_, err = svc.CreateEmployee(ctx, createReq("E001", ""))
	assert.True(t, errors.Is(err, employee.ErrEmailExists) || errors.Is(err, employee.ErrEmployeeCodeExists))
}

func TestCreateEmployee_ManagerMustBeManager(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	peer, err := svc.CreateEmployee(ctx, createReq("E001", "employee"))
	require.NoError(t, err)

	req := createReq("E002", "employee")
	req.ManagerID = &peer.ID
	_, err = svc.CreateEmployee(ctx, req)
	assert.True(t, errors.Is(err, employee.ErrInvalidManager))
}

func TestCreateEmployee_Validation(t *testing.T) {
	svc, _ := newService(t)

	negative := -1.0
	req := createReq("E001", "intern")
	req.Password = "short"
	req.LeaveBalance = &employee.LeaveBalanceInput{Sick: &negative}

	_, err := svc.CreateEmployee(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password must be at least 8 characters")
	assert.Contains(t, err.Error(), "role must be one of")
	assert.Contains(t, err.Error(), "sick balance must not be negative")
}

func TestCreateEmployee_BalanceGranularity(t *testing.T) {
	svc, repo := newService(t)

	quarter, half := 2.25, 2.5
	req := createReq("E001", "employee")
	req.LeaveBalance = &employee.LeaveBalanceInput{Annual: &quarter}

	_, err := svc.CreateEmployee(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "annual balance must be a multiple of 0.5")

	_, err = repo.GetByEmail(context.Background(), "e001@example.com")
	assert.Error(t, err, "nothing is stored on a rejected create")

	req.LeaveBalance = &employee.LeaveBalanceInput{Annual: &half}
	emp, err := svc.CreateEmployee(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2.5, emp.LeaveBalance.Annual)
}

func TestUpdateEmployee(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	mgr, err := svc.CreateEmployee(ctx, createReq("M001", "manager"))
	require.NoError(t, err)
	emp, err := svc.CreateEmployee(ctx, createReq("E001", "employee"))
	require.NoError(t, err)

	name := "Renamed Employee"
	updated, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: emp.ID, FullName: &name, ManagerID: &mgr.ID})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)
	assert.Equal(t, mgr.ID, *updated.ManagerID)

	none := ""
	updated, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: emp.ID, ManagerID: &none})
	require.NoError(t, err)
	assert.Nil(t, updated.ManagerID)

	self := emp.ID
	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: emp.ID, ManagerID: &self})
	assert.ErrorContains(t, err, "cannot be their own manager")
}

func TestDeleteEmployee(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	admin, err := svc.CreateEmployee(ctx, createReq("A001", "admin"))
	require.NoError(t, err)
	emp, err := svc.CreateEmployee(ctx, createReq("E001", "employee"))
	require.NoError(t, err)

	assert.True(t, errors.Is(svc.DeleteEmployee(ctx, admin.ID, admin.ID), employee.ErrCannotDeleteSelf))
	require.NoError(t, svc.DeleteEmployee(ctx, admin.ID, emp.ID))

	_, err = svc.GetEmployee(ctx, emp.ID)
	assert.True(t, errors.Is(err, employee.ErrEmployeeNotFound))

	list, err := svc.ListEmployees(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.TotalCount)
}
