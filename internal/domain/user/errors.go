package user

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

var (
	ErrUnauthenticated         = apperror.New(apperror.CodeUnauthorized, "authentication required")
	ErrAdminAccessRequired     = apperror.New(apperror.CodeForbidden, "admin access required")
	ErrManagerAccessRequired   = apperror.New(apperror.CodeForbidden, "manager access required")
	ErrInsufficientPermissions = apperror.New(apperror.CodeForbidden, "insufficient permissions")
)
