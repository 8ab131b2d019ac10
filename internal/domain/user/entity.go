package user

import "context"

type Role string

const (
	RoleAdmin    Role = "admin"    // Manages employees, holidays and office policy
	RoleManager  Role = "manager"  // Can approve leave/attendance
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// IsManager checks if role is manager or admin
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleAdmin
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Identity is the authenticated caller as supplied by the auth middleware.
// The core never authenticates; it only trusts what is put here.
type Identity struct {
	EmployeeID string
	Email      string
	Role       Role
}

// CanApprove checks if identity can decide leave and approve attendance
func (i Identity) CanApprove() bool {
	return i.Role.IsManager()
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.EmployeeID != ""
}
