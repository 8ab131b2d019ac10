package auth

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Me(ctx context.Context, employeeID string) (employee.EmployeeResponse, error)
	// IssueSSEToken returns a short-lived token for the notification stream,
	// since EventSource cannot send an Authorization header.
	IssueSSEToken(ctx context.Context, employeeID string) (SSETokenResponse, error)
}
