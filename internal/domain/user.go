package domain

import "time"

// UserRole is an open string set; only Admin and Assignee carry special
// meaning for internal-comment visibility.
type UserRole string

const (
	RoleAdmin    UserRole = "Admin"
	RoleAssignee UserRole = "Assignee"
)

// CanViewInternal reports whether a viewer with this role may read
// internal comments.
func (r UserRole) CanViewInternal() bool {
	return r == RoleAdmin || r == RoleAssignee
}

// User is the domain model for people who log in, get assigned tickets and
// comment on them. Accounts are provisioned out-of-band; this service never
// creates or deletes them.
type User struct {
	ID           int64
	Username     string
	Role         UserRole
	PasswordHash *string
	CreatedAt    time.Time
}
