package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment records a file linked to an issue. The file body itself
// lives elsewhere; only the URL is tracked.
type Attachment struct {
	ID         uuid.UUID
	IssueID    uuid.UUID
	Filename   string
	FileURL    string
	UploadedAt time.Time
}

// AttachmentInput is the raw mutation record for attachments.
type AttachmentInput struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	IssueID    *uuid.UUID `json:"issue_id,omitempty"`
	Filename   string     `json:"filename"`
	FileURL    string     `json:"file_url"`
	UploadedAt string     `json:"uploaded_at,omitempty"`
}
