package validate

import (
	"strings"
	"time"

	"issuetracker/internal/models"
)

// issueRules checks the field constraints shared by create and update.
// The exactly-one-of rule for status/priority is evaluated on the raw
// name/id pair by XOR of presence; an out-of-range id is reported as a
// distinct message. today is the due-date floor.
func issueRules(in *models.IssueInput, today time.Time) []string {
	var msgs []string

	title := strings.TrimSpace(in.Title)
	if title == "" {
		msgs = append(msgs, "Issue title is mandatory")
	} else if len(title) < 3 || len(title) > 200 {
		msgs = append(msgs, "Issue title must be between 3 and 200 characters")
	}

	msgs = maxLength(msgs, in.Description, 1000, "Issue description cannot exceed 1000 characters")

	if in.ProjectID == nil {
		msgs = append(msgs, "Project ID is mandatory")
	}
	if in.ReporterID == nil {
		msgs = append(msgs, "Reporter ID is mandatory")
	}

	hasPriorityName := strings.TrimSpace(in.Priority) != ""
	switch {
	case hasPriorityName == (in.PriorityID != nil):
		msgs = append(msgs, "Exactly one of 'priority' or 'priorityId' must be provided, not both")
	case hasPriorityName:
		if _, err := models.IssuePriorityFromName(strings.ToUpper(strings.TrimSpace(in.Priority))); err != nil {
			msgs = append(msgs, "Invalid priority: "+in.Priority)
		}
	default:
		if !models.IssuePriority(*in.PriorityID).Valid() {
			msgs = append(msgs, "Invalid priorityId: must be between 1 and 4")
		}
	}

	hasStatusName := strings.TrimSpace(in.Status) != ""
	switch {
	case hasStatusName == (in.StatusID != nil):
		msgs = append(msgs, "Exactly one of 'status' or 'statusId' must be provided, not both")
	case hasStatusName:
		if _, err := models.IssueStatusFromName(strings.ToUpper(strings.TrimSpace(in.Status))); err != nil {
			msgs = append(msgs, "Invalid status: "+in.Status)
		}
	default:
		if !models.IssueStatus(*in.StatusID).Valid() {
			msgs = append(msgs, "Invalid statusId: must be between 1 and 4")
		}
	}

	if strings.TrimSpace(in.DueDate) != "" {
		due, err := time.Parse(models.DueDateLayout, strings.TrimSpace(in.DueDate))
		if err != nil {
			msgs = append(msgs, "Due date must be in yyyy-MM-dd format")
		} else if due.Before(today.Truncate(24 * time.Hour)) {
			msgs = append(msgs, "Due date cannot be in the past")
		}
	}

	return msgs
}

// IssueForCreate validates a creation record. Identity and timestamps
// must not be pre-populated; they are assigned by the service.
func IssueForCreate(in *models.IssueInput, today time.Time) []string {
	msgs := issueRules(in, today)
	if in.ID != nil {
		msgs = append(msgs, "Issue ID should not be provided for new issues")
	}
	if in.CreatedAt != "" {
		msgs = append(msgs, "Created timestamp should not be provided for new issues")
	}
	if in.UpdatedAt != "" {
		msgs = append(msgs, "Updated timestamp should not be provided for new issues")
	}
	return msgs
}

// IssueForUpdate validates an update record, which must carry identity.
func IssueForUpdate(in *models.IssueInput, today time.Time) []string {
	msgs := issueRules(in, today)
	if in.ID == nil {
		msgs = append(msgs, "Issue ID is required for updates")
	}
	return msgs
}
