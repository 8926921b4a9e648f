package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuetracker/internal/models"
)

func baseIssue() *models.Issue {
	return &models.Issue{
		ID:          uuid.New(),
		ProjectID:   uuid.New(),
		Title:       "Login page broken",
		Description: "500 on submit",
		Status:      models.StatusTodo,
		Priority:    models.PriorityMedium,
		ReporterID:  uuid.New(),
	}
}

func clone(i *models.Issue) *models.Issue {
	c := *i
	return &c
}

func TestComputeDiffNoChanges(t *testing.T) {
	existing := baseIssue()
	history := computeDiff(existing, clone(existing), uuid.New(), randomIDs{}, time.Now())
	assert.Empty(t, history)
}

func TestComputeDiffAllTrackedFields(t *testing.T) {
	existing := baseIssue()
	updated := clone(existing)

	assignee := uuid.New()
	due := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	updated.Status = models.StatusDone
	updated.AssigneeID = &assignee
	updated.Priority = models.PriorityCritical
	updated.Title = "Login page fixed"
	updated.Description = "Resolved"
	updated.DueDate = &due

	actor := uuid.New()
	at := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	history := computeDiff(existing, updated, actor, randomIDs{}, at)
	require.Len(t, history, 6)

	fields := make([]string, len(history))
	for i, h := range history {
		fields[i] = h.Field
		assert.Equal(t, existing.ID, h.IssueID)
		assert.Equal(t, actor, h.ChangedBy)
		assert.Equal(t, at, h.ChangedAt)
		assert.NotEqual(t, uuid.Nil, h.ID)
	}
	assert.Equal(t, []string{
		models.FieldStatus,
		models.FieldAssignee,
		models.FieldPriority,
		models.FieldTitle,
		models.FieldDescription,
		models.FieldDueDate,
	}, fields)
}

func TestComputeDiffEnumValuesAreNumericIDs(t *testing.T) {
	existing := baseIssue()
	updated := clone(existing)
	updated.Status = models.StatusCancelled
	updated.Priority = models.PriorityLow

	history := computeDiff(existing, updated, uuid.New(), randomIDs{}, time.Now())
	require.Len(t, history, 2)

	assert.Equal(t, "1", *history[0].OldValue)
	assert.Equal(t, "4", *history[0].NewValue)
	assert.Equal(t, "2", *history[1].OldValue)
	assert.Equal(t, "1", *history[1].NewValue)
}

func TestComputeDiffAbsentValuesAreNil(t *testing.T) {
	existing := baseIssue()
	existing.Description = ""
	updated := clone(existing)

	assignee := uuid.New()
	updated.AssigneeID = &assignee
	updated.Description = "Now described"

	history := computeDiff(existing, updated, uuid.New(), randomIDs{}, time.Now())
	require.Len(t, history, 2)

	assert.Equal(t, models.FieldAssignee, history[0].Field)
	assert.Nil(t, history[0].OldValue)
	assert.Equal(t, assignee.String(), *history[0].NewValue)

	assert.Equal(t, models.FieldDescription, history[1].Field)
	assert.Nil(t, history[1].OldValue)
	assert.Equal(t, "Now described", *history[1].NewValue)
}

func TestComputeDiffAssigneeSwap(t *testing.T) {
	existing := baseIssue()
	first := uuid.New()
	existing.AssigneeID = &first

	updated := clone(existing)
	second := uuid.New()
	updated.AssigneeID = &second

	history := computeDiff(existing, updated, uuid.New(), randomIDs{}, time.Now())
	require.Len(t, history, 1)
	assert.Equal(t, first.String(), *history[0].OldValue)
	assert.Equal(t, second.String(), *history[0].NewValue)
}

func TestComputeDiffSameAssigneeDifferentPointers(t *testing.T) {
	existing := baseIssue()
	id := uuid.New()
	a := id
	b := id
	existing.AssigneeID = &a
	updated := clone(existing)
	updated.AssigneeID = &b

	history := computeDiff(existing, updated, uuid.New(), randomIDs{}, time.Now())
	assert.Empty(t, history)
}
