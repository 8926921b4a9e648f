package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Issue is a tracked issue within a project. Status and Priority are
// normalized enums; the name-or-id dual representation lives only on
// IssueInput.
type Issue struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Title       string
	Description string
	Status      IssueStatus
	Priority    IssuePriority
	ReporterID  uuid.UUID
	AssigneeID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DueDate     *time.Time // date precision, stored as yyyy-MM-dd
}

// IssueInput is the raw mutation record as received from the caller.
// Status/priority arrive as either a symbolic name or a numeric id;
// exactly one of the two must be set. Timestamps are caller-supplied
// strings only so that creation can reject them.
type IssueInput struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	StatusID    *int       `json:"status_id,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	PriorityID  *int       `json:"priority_id,omitempty"`
	ReporterID  *uuid.UUID `json:"reporter_id,omitempty"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	DueDate     string     `json:"due_date,omitempty"` // yyyy-MM-dd
	CreatedAt   string     `json:"created_at,omitempty"`
	UpdatedAt   string     `json:"updated_at,omitempty"`
}

// DueDateLayout is the wire format for issue due dates.
const DueDateLayout = "2006-01-02"

// ResolveStatus returns the normalized status for a validated input.
func (in *IssueInput) ResolveStatus() (IssueStatus, error) {
	if in.Status != "" {
		return IssueStatusFromName(in.Status)
	}
	if in.StatusID == nil {
		return 0, errors.New("status not provided")
	}
	return IssueStatusFromID(*in.StatusID)
}

// ResolvePriority returns the normalized priority for a validated input.
func (in *IssueInput) ResolvePriority() (IssuePriority, error) {
	if in.Priority != "" {
		return IssuePriorityFromName(in.Priority)
	}
	if in.PriorityID == nil {
		return 0, errors.New("priority not provided")
	}
	return IssuePriorityFromID(*in.PriorityID)
}

// ResolveDueDate parses the optional due date; nil when absent.
func (in *IssueInput) ResolveDueDate() (*time.Time, error) {
	if in.DueDate == "" {
		return nil, nil
	}
	t, err := time.Parse(DueDateLayout, in.DueDate)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Tracked history field names. Only these six issue attributes are
// eligible for audit recording.
const (
	FieldStatus      = "status"
	FieldAssignee    = "assignee"
	FieldPriority    = "priority"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDueDate     = "dueDate"
)

// IssueHistory is an immutable audit record: one row per changed
// tracked field per update. Old/new values are nil when the field had
// no value on that side of the change.
type IssueHistory struct {
	ID        uuid.UUID
	IssueID   uuid.UUID
	ChangedBy uuid.UUID
	Field     string
	OldValue  *string
	NewValue  *string
	ChangedAt time.Time
}
