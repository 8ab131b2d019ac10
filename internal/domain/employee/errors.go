package employee

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound   = apperror.New(apperror.CodeNotFound, "employee not found")
	ErrEmployeeCodeExists = apperror.New(apperror.CodeConflict, "employee code already exists")
	ErrEmailExists        = apperror.New(apperror.CodeConflict, "email already registered")
	ErrEmployeeInactive   = apperror.New(apperror.CodeForbidden, "employee is inactive")
	ErrCannotDeleteSelf   = apperror.New(apperror.CodeBadRequest, "cannot delete your own employee record")
	ErrInvalidManager     = apperror.New(apperror.CodeBadRequest, "manager must be an active manager or admin")
	ErrUntrackedLeaveType = apperror.New(apperror.CodeBadRequest, "leave type has no balance")
	ErrNegativeBalance    = apperror.New(apperror.CodeInsufficientBalance, "leave balance cannot go negative")
)
