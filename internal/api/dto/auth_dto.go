package dto

import (
	"time"

	"github.com/spec-kit/tasktrack/internal/domain"
)

// LoginRequest payload for login. Password is only checked for accounts
// that have a stored credential.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// UserResponse is the public shape of a user.
type UserResponse struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Role     domain.UserRole `json:"role"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Success   bool         `json:"success"`
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}
