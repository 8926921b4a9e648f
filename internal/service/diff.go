package service

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"issuetracker/internal/models"
)

// computeDiff compares the stored issue against its updated form and
// returns one history row per changed tracked field. All rows from a
// single update share the same changedAt instant. Enum values are
// recorded as their numeric ids in decimal form; absent values (no
// assignee, no due date) are recorded as NULL rather than a sentinel
// string.
func computeDiff(existing, updated *models.Issue, actor uuid.UUID, ids IDSource, changedAt time.Time) []*models.IssueHistory {
	var history []*models.IssueHistory

	record := func(field string, oldValue, newValue *string) {
		history = append(history, &models.IssueHistory{
			ID:        ids.NewID(),
			IssueID:   existing.ID,
			ChangedBy: actor,
			Field:     field,
			OldValue:  oldValue,
			NewValue:  newValue,
			ChangedAt: changedAt,
		})
	}

	if existing.Status != updated.Status {
		record(models.FieldStatus, intValue(int(existing.Status)), intValue(int(updated.Status)))
	}
	if !uuidPtrEqual(existing.AssigneeID, updated.AssigneeID) {
		record(models.FieldAssignee, uuidValue(existing.AssigneeID), uuidValue(updated.AssigneeID))
	}
	if existing.Priority != updated.Priority {
		record(models.FieldPriority, intValue(int(existing.Priority)), intValue(int(updated.Priority)))
	}
	if existing.Title != updated.Title {
		record(models.FieldTitle, strValue(existing.Title), strValue(updated.Title))
	}
	if existing.Description != updated.Description {
		record(models.FieldDescription, strValue(existing.Description), strValue(updated.Description))
	}
	if !datePtrEqual(existing.DueDate, updated.DueDate) {
		record(models.FieldDueDate, dateValue(existing.DueDate), dateValue(updated.DueDate))
	}

	return history
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func datePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func intValue(v int) *string {
	s := strconv.Itoa(v)
	return &s
}

func strValue(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func uuidValue(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func dateValue(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(models.DueDateLayout)
	return &s
}
