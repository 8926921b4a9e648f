package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *SQLiteStore, email string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		Role:         models.RoleDeveloper,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedProject(t *testing.T, s *SQLiteStore, ownerID uuid.UUID, name string) *models.Project {
	t.Helper()
	now := time.Now().UTC()
	p := &models.Project{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateProject(context.Background(), p))
	return p
}

func seedIssue(t *testing.T, s *SQLiteStore, projectID, reporterID uuid.UUID, title string) *models.Issue {
	t.Helper()
	now := time.Now().UTC()
	i := &models.Issue{
		ID:         uuid.New(),
		ProjectID:  projectID,
		Title:      title,
		Status:     models.StatusTodo,
		Priority:   models.PriorityMedium,
		ReporterID: reporterID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, s.CreateIssue(context.Background(), i))
	return i
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice@example.com")

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, models.RoleDeveloper, got.Role)

	got.Name = "Alice"
	require.NoError(t, s.UpdateUser(ctx, got))

	got, err = s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	_, err = s.GetUser(ctx, u.ID)
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestUserNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var nf *apperr.NotFoundError
	_, err := s.GetUser(ctx, uuid.New())
	assert.ErrorAs(t, err, &nf)

	err = s.UpdateUser(ctx, &models.User{ID: uuid.New(), Role: models.RoleTester})
	assert.ErrorAs(t, err, &nf)

	err = s.DeleteUser(ctx, uuid.New())
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteUserStillReferenced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	seedProject(t, s, owner.ID, "Alpha")

	// a user who owns a project cannot be deleted out from under it
	err := s.DeleteUser(ctx, owner.ID)
	var invalid *apperr.InvalidStateError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Msg, "still referenced")

	// the user survives the refused delete
	got, err := s.GetUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.ID)
}

func TestEmailUniqueCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice@example.com")

	dup := &models.User{
		ID:        uuid.New(),
		Name:      "Other",
		Email:     "ALICE@Example.COM",
		Role:      models.RoleTester,
		CreatedAt: time.Now().UTC(),
	}
	err := s.CreateUser(ctx, dup)
	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)

	inUse, err := s.EmailInUse(ctx, "ALICE@EXAMPLE.COM", nil)
	require.NoError(t, err)
	assert.True(t, inUse)

	// the owner of the email is excluded when checking for updates
	inUse, err = s.EmailInUse(ctx, "alice@example.com", &u.ID)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestGetUserByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "bob@example.com")

	got, err := s.GetUserByEmail(ctx, "BOB@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestProjectNameUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	seedProject(t, s, owner.ID, "Alpha")

	now := time.Now().UTC()
	dup := &models.Project{
		ID:        uuid.New(),
		Name:      "alpha",
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.CreateProject(ctx, dup)
	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "project", conflict.Kind)
}

func TestIssueTitleUniquePerProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	alpha := seedProject(t, s, owner.ID, "Alpha")
	beta := seedProject(t, s, owner.ID, "Beta")

	issue := seedIssue(t, s, alpha.ID, owner.ID, "Login broken")

	// same title in a different project is fine
	other := seedIssue(t, s, beta.ID, owner.ID, "Login broken")
	assert.NotEqual(t, issue.ID, other.ID)

	// case-insensitive duplicate within the same project conflicts
	now := time.Now().UTC()
	err := s.CreateIssue(ctx, &models.Issue{
		ID:         uuid.New(),
		ProjectID:  alpha.ID,
		Title:      "LOGIN BROKEN",
		Status:     models.StatusTodo,
		Priority:   models.PriorityLow,
		ReporterID: owner.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)

	inUse, err := s.IssueTitleInUse(ctx, alpha.ID, "login broken", nil)
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = s.IssueTitleInUse(ctx, alpha.ID, "login broken", &issue.ID)
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestIssueNullableFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	project := seedProject(t, s, owner.ID, "Alpha")

	issue := seedIssue(t, s, project.ID, owner.ID, "No assignee, no due date")
	got, err := s.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssigneeID)
	assert.Nil(t, got.DueDate)

	assignee := seedUser(t, s, "dev@example.com")
	due := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	got.AssigneeID = &assignee.ID
	got.DueDate = &due
	require.NoError(t, s.UpdateIssue(ctx, got))

	got, err = s.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, assignee.ID, *got.AssigneeID)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, due, *got.DueDate)
}

func TestListIssuesFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	dev := seedUser(t, s, "dev@example.com")
	alpha := seedProject(t, s, owner.ID, "Alpha")
	beta := seedProject(t, s, owner.ID, "Beta")

	a := seedIssue(t, s, alpha.ID, owner.ID, "Fix login page")
	b := seedIssue(t, s, alpha.ID, dev.ID, "Add search")
	seedIssue(t, s, beta.ID, owner.ID, "Unrelated")

	byProject, err := s.ListIssues(ctx, IssueFilter{ProjectID: &alpha.ID})
	require.NoError(t, err)
	assert.Len(t, byProject, 2)

	byReporter, err := s.ListIssues(ctx, IssueFilter{ReporterID: &dev.ID})
	require.NoError(t, err)
	require.Len(t, byReporter, 1)
	assert.Equal(t, b.ID, byReporter[0].ID)

	byTitle, err := s.ListIssues(ctx, IssueFilter{TitleLike: "login"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, a.ID, byTitle[0].ID)

	byStatus, err := s.ListIssues(ctx, IssueFilter{Status: models.StatusTodo})
	require.NoError(t, err)
	assert.Len(t, byStatus, 3)
}

func TestIssueHistoryOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	project := seedProject(t, s, owner.ID, "Alpha")
	issue := seedIssue(t, s, project.ID, owner.ID, "Tracked issue")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	oldStatus := "1"
	newStatus := "2"
	first := &models.IssueHistory{
		ID:        uuid.New(),
		IssueID:   issue.ID,
		ChangedBy: owner.ID,
		Field:     models.FieldStatus,
		OldValue:  &oldStatus,
		NewValue:  &newStatus,
		ChangedAt: base,
	}
	require.NoError(t, s.InsertIssueHistory(ctx, first))

	newTitle := "Renamed"
	oldTitle := "Tracked issue"
	second := &models.IssueHistory{
		ID:        uuid.New(),
		IssueID:   issue.ID,
		ChangedBy: owner.ID,
		Field:     models.FieldTitle,
		OldValue:  &oldTitle,
		NewValue:  &newTitle,
		ChangedAt: base.Add(time.Hour),
	}
	require.NoError(t, s.InsertIssueHistory(ctx, second))

	history, err := s.ListIssueHistory(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// newest first
	assert.Equal(t, models.FieldTitle, history[0].Field)
	assert.Equal(t, models.FieldStatus, history[1].Field)
	require.NotNil(t, history[1].OldValue)
	assert.Equal(t, "1", *history[1].OldValue)
}

func TestIssueHistoryNullOldValue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	project := seedProject(t, s, owner.ID, "Alpha")
	issue := seedIssue(t, s, project.ID, owner.ID, "Unassigned issue")

	assignee := "9f6e8c1a-0000-0000-0000-000000000001"
	h := &models.IssueHistory{
		ID:        uuid.New(),
		IssueID:   issue.ID,
		ChangedBy: owner.ID,
		Field:     models.FieldAssignee,
		OldValue:  nil,
		NewValue:  &assignee,
		ChangedAt: time.Now().UTC(),
	}
	require.NoError(t, s.InsertIssueHistory(ctx, h))

	history, err := s.ListIssueHistory(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].OldValue)
	require.NotNil(t, history[0].NewValue)
	assert.Equal(t, assignee, *history[0].NewValue)
}

func TestTeamMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	member := seedUser(t, s, "member@example.com")

	team := &models.Team{
		ID:        uuid.New(),
		Name:      "Backend",
		OwnerID:   owner.ID,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateTeam(ctx, team))

	require.NoError(t, s.AddTeamMember(ctx, team.ID, member.ID))

	isMember, err := s.IsTeamMember(ctx, team.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	// duplicate add hits the composite primary key
	err = s.AddTeamMember(ctx, team.ID, member.ID)
	var conflict *apperr.ConflictError
	assert.ErrorAs(t, err, &conflict)

	members, err := s.ListTeamMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, member.ID, members[0].ID)

	teams, err := s.ListUserTeams(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, team.ID, teams[0].ID)

	require.NoError(t, s.RemoveTeamMember(ctx, team.ID, member.ID))

	// removing again is an invalid state, not a silent no-op
	err = s.RemoveTeamMember(ctx, team.ID, member.ID)
	var invalid *apperr.InvalidStateError
	assert.ErrorAs(t, err, &invalid)
}

func TestLabelAssignment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	project := seedProject(t, s, owner.ID, "Alpha")
	issue := seedIssue(t, s, project.ID, owner.ID, "Labeled issue")

	label := &models.IssueLabel{ID: uuid.New(), Name: "bug", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateLabel(ctx, label))

	require.NoError(t, s.AssignLabel(ctx, issue.ID, label.ID))

	assigned, err := s.IsLabelAssigned(ctx, issue.ID, label.ID)
	require.NoError(t, err)
	assert.True(t, assigned)

	err = s.AssignLabel(ctx, issue.ID, label.ID)
	var conflict *apperr.ConflictError
	assert.ErrorAs(t, err, &conflict)

	labels, err := s.ListIssueLabels(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "bug", labels[0].Name)

	require.NoError(t, s.UnassignLabel(ctx, issue.ID, label.ID))

	err = s.UnassignLabel(ctx, issue.ID, label.ID)
	var invalid *apperr.InvalidStateError
	assert.ErrorAs(t, err, &invalid)
}

func TestCommentsAndAttachments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	project := seedProject(t, s, owner.ID, "Alpha")
	issue := seedIssue(t, s, project.ID, owner.ID, "Discussed issue")

	c := &models.Comment{
		ID:        uuid.New(),
		IssueID:   issue.ID,
		UserID:    owner.ID,
		Text:      "First observation",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateComment(ctx, c))

	c.Text = "Edited observation"
	require.NoError(t, s.UpdateComment(ctx, c))

	comments, err := s.ListIssueComments(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Edited observation", comments[0].Text)

	a := &models.Attachment{
		ID:         uuid.New(),
		IssueID:    issue.ID,
		Filename:   "trace.log",
		FileURL:    "https://files.example.com/trace.log",
		UploadedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateAttachment(ctx, a))

	attachments, err := s.ListIssueAttachments(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, "trace.log", attachments[0].Filename)

	require.NoError(t, s.DeleteAttachment(ctx, a.ID))
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, s.DeleteAttachment(ctx, a.ID), &nf)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	project := seedProject(t, s, owner.ID, "Alpha")

	issueID := uuid.New()
	now := time.Now().UTC()
	err := s.WithTx(ctx, func(tx Store) error {
		if err := tx.CreateIssue(ctx, &models.Issue{
			ID:         issueID,
			ProjectID:  project.ID,
			Title:      "Doomed issue",
			Status:     models.StatusTodo,
			Priority:   models.PriorityLow,
			ReporterID: owner.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = s.GetIssue(ctx, issueID)
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestWithTxCommits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, s, "owner@example.com")
	project := seedProject(t, s, owner.ID, "Alpha")

	issueID := uuid.New()
	now := time.Now().UTC()
	err := s.WithTx(ctx, func(tx Store) error {
		if err := tx.CreateIssue(ctx, &models.Issue{
			ID:         issueID,
			ProjectID:  project.ID,
			Title:      "Committed issue",
			Status:     models.StatusInProgress,
			Priority:   models.PriorityHigh,
			ReporterID: owner.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return err
		}
		old := "1"
		newV := "2"
		return tx.InsertIssueHistory(ctx, &models.IssueHistory{
			ID:        uuid.New(),
			IssueID:   issueID,
			ChangedBy: owner.ID,
			Field:     models.FieldStatus,
			OldValue:  &old,
			NewValue:  &newV,
			ChangedAt: now,
		})
	})
	require.NoError(t, err)

	got, err := s.GetIssue(ctx, issueID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)

	history, err := s.ListIssueHistory(ctx, issueID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestMigrateIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}
