package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"
)

func TestCreateIssueAssignsIdentityAndTimestamps(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, svc, "owner@example.com")
	project := createProject(t, svc, owner.ID, "Alpha")

	issue, err := svc.CreateIssue(ctx, &models.IssueInput{
		ProjectID:  &project.ID,
		Title:      "Login page broken",
		Status:     "todo",
		Priority:   "MEDIUM",
		ReporterID: &owner.ID,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, issue.ID)
	assert.Equal(t, clock.Now(), issue.CreatedAt)
	assert.Equal(t, clock.Now(), issue.UpdatedAt)
	assert.Equal(t, models.StatusTodo, issue.Status)
	assert.Equal(t, models.PriorityMedium, issue.Priority)
	assert.Nil(t, issue.AssigneeID)

	// freshly created issues carry no history
	history, err := svc.GetIssueHistory(ctx, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCreateIssueCollectsAllValidationMessages(t *testing.T) {
	svc, _ := newTestService(t)

	id := uuid.New()
	_, err := svc.CreateIssue(context.Background(), &models.IssueInput{
		ID:        &id,
		Title:     "ab",
		Status:    "TODO",
		StatusID:  intPtr(2),
		CreatedAt: "2026-01-01T00:00:00Z",
	})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Contains(t, verr.Messages, "Issue title must be between 3 and 200 characters")
	assert.Contains(t, verr.Messages, "Project ID is mandatory")
	assert.Contains(t, verr.Messages, "Reporter ID is mandatory")
	assert.Contains(t, verr.Messages, "Exactly one of 'priority' or 'priorityId' must be provided, not both")
	assert.Contains(t, verr.Messages, "Exactly one of 'status' or 'statusId' must be provided, not both")
	assert.Contains(t, verr.Messages, "Issue ID should not be provided for new issues")
	assert.Contains(t, verr.Messages, "Created timestamp should not be provided for new issues")
}

func TestCreateIssueEnumExactlyOneOf(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, svc, "owner@example.com")
	project := createProject(t, svc, owner.ID, "Alpha")

	base := func() *models.IssueInput {
		return &models.IssueInput{
			ProjectID:  &project.ID,
			Title:      "Valid title",
			ReporterID: &owner.ID,
		}
	}

	cases := []struct {
		name    string
		mutate  func(*models.IssueInput)
		message string
	}{
		{
			name:    "neither status form",
			mutate:  func(in *models.IssueInput) { in.Priority = "LOW" },
			message: "Exactly one of 'status' or 'statusId' must be provided, not both",
		},
		{
			name: "both status forms",
			mutate: func(in *models.IssueInput) {
				in.Priority = "LOW"
				in.Status = "TODO"
				in.StatusID = intPtr(1)
			},
			message: "Exactly one of 'status' or 'statusId' must be provided, not both",
		},
		{
			name: "unknown status name",
			mutate: func(in *models.IssueInput) {
				in.Priority = "LOW"
				in.Status = "SHIPPED"
			},
			message: "Invalid status: SHIPPED",
		},
		{
			name: "status id out of range",
			mutate: func(in *models.IssueInput) {
				in.Priority = "LOW"
				in.StatusID = intPtr(9)
			},
			message: "Invalid statusId: must be between 1 and 4",
		},
		{
			name: "status id zero",
			mutate: func(in *models.IssueInput) {
				in.Priority = "LOW"
				in.StatusID = intPtr(0)
			},
			message: "Invalid statusId: must be between 1 and 4",
		},
		{
			name: "both priority forms",
			mutate: func(in *models.IssueInput) {
				in.Status = "TODO"
				in.Priority = "HIGH"
				in.PriorityID = intPtr(3)
			},
			message: "Exactly one of 'priority' or 'priorityId' must be provided, not both",
		},
		{
			name: "unknown priority name",
			mutate: func(in *models.IssueInput) {
				in.Status = "TODO"
				in.Priority = "URGENT"
			},
			message: "Invalid priority: URGENT",
		},
		{
			name: "priority id zero",
			mutate: func(in *models.IssueInput) {
				in.Status = "TODO"
				in.PriorityID = intPtr(0)
			},
			message: "Invalid priorityId: must be between 1 and 4",
		},
		{
			name: "priority id negative",
			mutate: func(in *models.IssueInput) {
				in.Status = "TODO"
				in.PriorityID = intPtr(-1)
			},
			message: "Invalid priorityId: must be between 1 and 4",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base()
			tc.mutate(in)
			_, err := svc.CreateIssue(ctx, in)
			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Messages, tc.message)
		})
	}
}

func TestCreateIssueZeroEnumIDIsRangeErrorNotAbsence(t *testing.T) {
	svc, _ := newTestService(t)

	projectID := uuid.New()
	reporterID := uuid.New()
	_, err := svc.CreateIssue(context.Background(), &models.IssueInput{
		ProjectID:  &projectID,
		Title:      "Valid title",
		Status:     "TODO",
		PriorityID: intPtr(0),
		ReporterID: &reporterID,
	})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Contains(t, verr.Messages, "Invalid priorityId: must be between 1 and 4")
	assert.NotContains(t, verr.Messages, "Exactly one of 'priority' or 'priorityId' must be provided, not both")
}

func TestCreateIssueDueDateRules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, svc, "owner@example.com")
	project := createProject(t, svc, owner.ID, "Alpha")

	in := &models.IssueInput{
		ProjectID:  &project.ID,
		Title:      "Due date checks",
		Status:     "TODO",
		Priority:   "LOW",
		ReporterID: &owner.ID,
		DueDate:    "15-08-2026",
	}
	_, err := svc.CreateIssue(ctx, in)
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "Due date must be in yyyy-MM-dd format")

	in.DueDate = "2020-01-01"
	_, err = svc.CreateIssue(ctx, in)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "Due date cannot be in the past")

	in.DueDate = "2026-12-31"
	issue, err := svc.CreateIssue(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, issue.DueDate)
	assert.Equal(t, "2026-12-31", issue.DueDate.Format(models.DueDateLayout))
}

func TestCreateIssueReferentialChecks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, svc, "owner@example.com")
	project := createProject(t, svc, owner.ID, "Alpha")
	ghost := uuid.New()

	// assignee is checked first when present
	_, err := svc.CreateIssue(ctx, &models.IssueInput{
		ProjectID:  &project.ID,
		Title:      "Missing assignee",
		Status:     "TODO",
		Priority:   "LOW",
		ReporterID: &ghost,
		AssigneeID: &ghost,
	})
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "assignee", nf.Role)

	_, err = svc.CreateIssue(ctx, &models.IssueInput{
		ProjectID:  &project.ID,
		Title:      "Missing reporter",
		Status:     "TODO",
		Priority:   "LOW",
		ReporterID: &ghost,
	})
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "reporter", nf.Role)

	_, err = svc.CreateIssue(ctx, &models.IssueInput{
		ProjectID:  &ghost,
		Title:      "Missing project",
		Status:     "TODO",
		Priority:   "LOW",
		ReporterID: &owner.ID,
	})
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "project", nf.Kind)
}

func TestCreateIssueTitleScopedToProject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, svc, "owner@example.com")
	alpha := createProject(t, svc, owner.ID, "Alpha")
	beta := createProject(t, svc, owner.ID, "Beta")

	createIssue(t, svc, alpha.ID, owner.ID, "Login broken")

	// same title in another project is allowed
	_, err := svc.CreateIssue(ctx, &models.IssueInput{
		ProjectID:  &beta.ID,
		Title:      "Login broken",
		Status:     "TODO",
		Priority:   "LOW",
		ReporterID: &owner.ID,
	})
	require.NoError(t, err)

	// case-insensitive duplicate in the same project conflicts
	_, err = svc.CreateIssue(ctx, &models.IssueInput{
		ProjectID:  &alpha.ID,
		Title:      "LOGIN BROKEN",
		Status:     "TODO",
		Priority:   "LOW",
		ReporterID: &owner.ID,
	})
	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "title", conflict.Field)
}

func TestUpdateIssueRecordsHistoryPerChangedField(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	reporter := createUser(t, svc, "reporter@example.com")
	dev := createUser(t, svc, "dev@example.com")
	project := createProject(t, svc, reporter.ID, "Alpha")
	issue := createIssue(t, svc, project.ID, reporter.ID, "Login page broken")

	clock.Advance(time.Hour)

	// assign to dev and raise priority in one update: exactly two rows
	updated, err := svc.UpdateIssue(ctx, &models.IssueInput{
		ID:         &issue.ID,
		ProjectID:  &project.ID,
		Title:      issue.Title,
		Status:     "TODO",
		Priority:   "HIGH",
		ReporterID: &reporter.ID,
		AssigneeID: &dev.ID,
	}, reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), updated.UpdatedAt)
	assert.True(t, updated.CreatedAt.Equal(issue.CreatedAt), "createdAt is immutable")

	history, err := svc.GetIssueHistory(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	byField := map[string]*models.IssueHistory{}
	for _, h := range history {
		byField[h.Field] = h
		assert.True(t, h.ChangedAt.Equal(clock.Now()), "history rows share the update instant")
		assert.Equal(t, reporter.ID, h.ChangedBy)
	}

	assignee := byField[models.FieldAssignee]
	require.NotNil(t, assignee)
	assert.Nil(t, assignee.OldValue)
	require.NotNil(t, assignee.NewValue)
	assert.Equal(t, dev.ID.String(), *assignee.NewValue)

	priority := byField[models.FieldPriority]
	require.NotNil(t, priority)
	require.NotNil(t, priority.OldValue)
	assert.Equal(t, "2", *priority.OldValue)
	require.NotNil(t, priority.NewValue)
	assert.Equal(t, "3", *priority.NewValue)
}

func TestUpdateIssueNoopWritesNothing(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	reporter := createUser(t, svc, "reporter@example.com")
	project := createProject(t, svc, reporter.ID, "Alpha")
	issue := createIssue(t, svc, project.ID, reporter.ID, "Stable issue")

	clock.Advance(time.Hour)

	updated, err := svc.UpdateIssue(ctx, &models.IssueInput{
		ID:         &issue.ID,
		ProjectID:  &project.ID,
		Title:      issue.Title,
		Status:     "TODO",
		PriorityID: intPtr(int(models.PriorityMedium)),
		ReporterID: &reporter.ID,
	}, reporter.ID)
	require.NoError(t, err)

	// no change: updatedAt keeps its original value
	assert.True(t, updated.UpdatedAt.Equal(issue.UpdatedAt))

	history, err := svc.GetIssueHistory(ctx, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestUpdateIssueHistoryAccumulates(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	reporter := createUser(t, svc, "reporter@example.com")
	project := createProject(t, svc, reporter.ID, "Alpha")
	issue := createIssue(t, svc, project.ID, reporter.ID, "Evolving issue")

	update := func(status string) {
		t.Helper()
		clock.Advance(time.Hour)
		_, err := svc.UpdateIssue(ctx, &models.IssueInput{
			ID:         &issue.ID,
			ProjectID:  &project.ID,
			Title:      issue.Title,
			Status:     status,
			PriorityID: intPtr(int(models.PriorityMedium)),
			ReporterID: &reporter.ID,
		}, reporter.ID)
		require.NoError(t, err)
	}

	update("IN_PROGRESS")
	update("DONE")

	history, err := svc.GetIssueHistory(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// newest first
	assert.Equal(t, "2", *history[0].OldValue)
	assert.Equal(t, "3", *history[0].NewValue)
	assert.Equal(t, "1", *history[1].OldValue)
	assert.Equal(t, "2", *history[1].NewValue)
}

func TestUpdateIssueDueDateCleared(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	reporter := createUser(t, svc, "reporter@example.com")
	project := createProject(t, svc, reporter.ID, "Alpha")

	issue, err := svc.CreateIssue(ctx, &models.IssueInput{
		ProjectID:  &project.ID,
		Title:      "Has a deadline",
		Status:     "TODO",
		Priority:   "LOW",
		ReporterID: &reporter.ID,
		DueDate:    "2026-12-31",
	})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	updated, err := svc.UpdateIssue(ctx, &models.IssueInput{
		ID:         &issue.ID,
		ProjectID:  &project.ID,
		Title:      issue.Title,
		Status:     "TODO",
		Priority:   "LOW",
		ReporterID: &reporter.ID,
	}, reporter.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	history, err := svc.GetIssueHistory(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.FieldDueDate, history[0].Field)
	require.NotNil(t, history[0].OldValue)
	assert.Equal(t, "2026-12-31", *history[0].OldValue)
	assert.Nil(t, history[0].NewValue)
}

func TestUpdateIssueUnknownIssue(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reporter := createUser(t, svc, "reporter@example.com")
	project := createProject(t, svc, reporter.ID, "Alpha")
	ghost := uuid.New()

	_, err := svc.UpdateIssue(ctx, &models.IssueInput{
		ID:         &ghost,
		ProjectID:  &project.ID,
		Title:      "Does not exist",
		Status:     "TODO",
		Priority:   "LOW",
		ReporterID: &reporter.ID,
	}, reporter.ID)
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "issue", nf.Kind)
}

func TestUpdateIssueTitleConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reporter := createUser(t, svc, "reporter@example.com")
	project := createProject(t, svc, reporter.ID, "Alpha")
	createIssue(t, svc, project.ID, reporter.ID, "First issue")
	second := createIssue(t, svc, project.ID, reporter.ID, "Second issue")

	_, err := svc.UpdateIssue(ctx, &models.IssueInput{
		ID:         &second.ID,
		ProjectID:  &project.ID,
		Title:      "first issue",
		Status:     "TODO",
		PriorityID: intPtr(int(models.PriorityMedium)),
		ReporterID: &reporter.ID,
	}, reporter.ID)
	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)

	// keeping its own title is not a conflict with itself
	_, err = svc.UpdateIssue(ctx, &models.IssueInput{
		ID:         &second.ID,
		ProjectID:  &project.ID,
		Title:      "Second issue",
		Status:     "TODO",
		PriorityID: intPtr(int(models.PriorityMedium)),
		ReporterID: &reporter.ID,
	}, reporter.ID)
	require.NoError(t, err)
}

func TestUpdateIssueRejectedUpdateWritesNothing(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	reporter := createUser(t, svc, "reporter@example.com")
	project := createProject(t, svc, reporter.ID, "Alpha")
	createIssue(t, svc, project.ID, reporter.ID, "First issue")
	second := createIssue(t, svc, project.ID, reporter.ID, "Second issue")

	// the conflicting title rolls back the whole update, including
	// the status change bundled with it
	clock.Advance(time.Hour)
	_, err := svc.UpdateIssue(ctx, &models.IssueInput{
		ID:         &second.ID,
		ProjectID:  &project.ID,
		Title:      "First issue",
		Status:     "IN_PROGRESS",
		PriorityID: intPtr(int(models.PriorityMedium)),
		ReporterID: &reporter.ID,
	}, reporter.ID)
	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)

	stored, err := svc.GetIssue(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second issue", stored.Title)
	assert.Equal(t, models.StatusTodo, stored.Status)
	assert.True(t, stored.UpdatedAt.Equal(second.UpdatedAt))

	history, err := svc.GetIssueHistory(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDeleteIssueCascadesHistory(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	reporter := createUser(t, svc, "reporter@example.com")
	project := createProject(t, svc, reporter.ID, "Alpha")
	issue := createIssue(t, svc, project.ID, reporter.ID, "Doomed")

	clock.Advance(time.Hour)
	_, err := svc.UpdateIssue(ctx, &models.IssueInput{
		ID:         &issue.ID,
		ProjectID:  &project.ID,
		Title:      issue.Title,
		Status:     "DONE",
		PriorityID: intPtr(int(models.PriorityMedium)),
		ReporterID: &reporter.ID,
	}, reporter.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteIssue(ctx, issue.ID))

	_, err = svc.GetIssueHistory(ctx, issue.ID)
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestIssueListingAndSearch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reporter := createUser(t, svc, "reporter@example.com")
	dev := createUser(t, svc, "dev@example.com")
	project := createProject(t, svc, reporter.ID, "Alpha")

	createIssue(t, svc, project.ID, reporter.ID, "Fix login redirect")
	assigned, err := svc.CreateIssue(ctx, &models.IssueInput{
		ProjectID:  &project.ID,
		Title:      "Add search endpoint",
		Status:     "IN_PROGRESS",
		Priority:   "HIGH",
		ReporterID: &reporter.ID,
		AssigneeID: &dev.ID,
	})
	require.NoError(t, err)

	byAssignee, err := svc.ListIssuesByAssignee(ctx, dev.ID)
	require.NoError(t, err)
	require.Len(t, byAssignee, 1)
	assert.Equal(t, assigned.ID, byAssignee[0].ID)

	byStatus, err := svc.ListIssuesByStatus(ctx, models.StatusInProgress)
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	byPriority, err := svc.ListIssuesByPriority(ctx, models.PriorityHigh)
	require.NoError(t, err)
	assert.Len(t, byPriority, 1)

	byTitle, err := svc.SearchIssuesByTitle(ctx, "login")
	require.NoError(t, err)
	assert.Len(t, byTitle, 1)

	byReporter, err := svc.ListIssuesByReporter(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Len(t, byReporter, 2)
}
