package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user remark on an issue. Only Text is mutable after
// creation.
type Comment struct {
	ID        uuid.UUID
	IssueID   uuid.UUID
	UserID    uuid.UUID
	Text      string
	CreatedAt time.Time
}

// CommentInput is the raw mutation record for comments.
type CommentInput struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	IssueID   *uuid.UUID `json:"issue_id,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Text      string     `json:"text"`
	CreatedAt string     `json:"created_at,omitempty"`
}
