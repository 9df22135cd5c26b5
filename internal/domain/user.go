package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the access level of a user. Roles form a strict hierarchy:
// guest < user < admin. A role may access everything a lower role may.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Level returns the position of the role in the hierarchy. Unknown roles
// map to -1 so they never satisfy any minimum-role check.
func (r Role) Level() int {
	switch r {
	case RoleGuest:
		return 0
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	default:
		return -1
	}
}

// AtLeast reports whether r grants access to a route requiring min.
func (r Role) AtLeast(min Role) bool {
	return r.Level() >= 0 && r.Level() >= min.Level()
}

// ParseRole validates a role string from an external source (JWT claim,
// request payload). The zero value of ok means the string is not a role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleGuest, RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User represents a dashboard account
type User struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	Avatar string    `json:"avatar,omitempty"`
	// PasswordHash is a bcrypt hash. Seeded demo users leave it empty,
	// in which case login succeeds on email lookup alone.
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
