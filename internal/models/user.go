package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is a tracker account. PasswordHash holds the opaque hash
// produced by the injected hasher; it is never the plaintext.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
}

// UserInput is the raw mutation record for users. Role arrives as
// either a symbolic name or a numeric id, exactly one of the two.
// Password is the plaintext credential; it is hashed before persist.
type UserInput struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"password,omitempty"`
	Role      string     `json:"role,omitempty"`
	RoleID    *int       `json:"role_id,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
}

// ResolveRole returns the normalized role for a validated input.
func (in *UserInput) ResolveRole() (UserRole, error) {
	if in.Role != "" {
		return UserRoleFromName(in.Role)
	}
	if in.RoleID == nil {
		return 0, errors.New("role not provided")
	}
	return UserRoleFromID(*in.RoleID)
}
