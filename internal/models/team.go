package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is a named group of users.
type Team struct {
	ID        uuid.UUID
	Name      string
	OwnerID   uuid.UUID
	CreatedAt time.Time
}

// TeamInput is the raw mutation record for teams.
type TeamInput struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Name      string     `json:"name"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
}

// TeamMember is a row in the team/user join. Existence is binary;
// there is no additional state.
type TeamMember struct {
	TeamID uuid.UUID
	UserID uuid.UUID
}
