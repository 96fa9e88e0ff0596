package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
)

var ErrValidation = errors.New("invalid input")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidToken = errors.New("invalid token")
var ErrTokenExpired = errors.New("token expired")
var ErrForbidden = errors.New("access forbidden")

// ValidRole reports whether role belongs to the closed role enumeration.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleWorker
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the resolved, current view of a verified token. Username and
// Role are always read back from the credential store, never taken from the
// token payload alone.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
