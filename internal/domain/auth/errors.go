package auth

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"

var (
	ErrInvalidCredentials = apperror.New(apperror.CodeUnauthorized, "invalid email or password")
	ErrAccountInactive    = apperror.New(apperror.CodeForbidden, "account is inactive")
	ErrInvalidToken       = apperror.New(apperror.CodeUnauthorized, "invalid or expired token")
)
