package models

import (
	"time"

	"github.com/google/uuid"
)

// IssueLabel is a globally named label attachable to issues.
type IssueLabel struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// LabelInput is the raw mutation record for labels.
type LabelInput struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Name      string     `json:"name"`
	CreatedAt string     `json:"created_at,omitempty"`
}

// IssueLabelMapping is a row in the issue/label join.
type IssueLabelMapping struct {
	IssueID uuid.UUID
	LabelID uuid.UUID
}
