package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is an operator's permission level.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleCashier Role = "CASHIER"
	RoleUser    Role = "USER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleUser:
		return true
	}
	return false
}

// User represents a register operator account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the login name (unique).
	Username string

	// DisplayName is shown on receipts and in the UI.
	DisplayName string

	// PasswordHash is the bcrypt hash of the operator's password.
	PasswordHash string

	// Role decides which parts of the register the operator can reach.
	Role Role

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(username, displayName, passwordHash string, role Role) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Session is the authenticated operator on whose behalf the register acts.
// It is passed explicitly to checkout rather than read from global state.
type Session struct {
	UserID   string
	Username string
	Role     Role
}
