package store

import (
	"context"

	"github.com/google/uuid"

	"issuetracker/internal/models"
)

// IssueFilter selects issues for listing. Nil/zero fields match
// everything.
type IssueFilter struct {
	ProjectID  *uuid.UUID
	ReporterID *uuid.UUID
	AssigneeID *uuid.UUID
	Status     models.IssueStatus
	Priority   models.IssuePriority
	TitleLike  string
}

// Store is the persistence gateway the service pipeline consumes.
// Implementations map storage-level uniqueness violations to
// apperr.ConflictError and zero-row updates/deletes to
// apperr.NotFoundError, so the race between a uniqueness pre-check and
// the final write still surfaces as a conflict.
//
// WithTx runs fn against a transaction-scoped view of the store;
// multi-statement operations (pre-check + insert, diff + history +
// update) go through it so partial writes never become visible.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	EmailInUse(ctx context.Context, email string, exclude *uuid.UUID) (bool, error)

	// Projects
	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error
	ProjectExists(ctx context.Context, id uuid.UUID) (bool, error)
	ProjectNameInUse(ctx context.Context, name string, exclude *uuid.UUID) (bool, error)

	// Issues
	CreateIssue(ctx context.Context, i *models.Issue) error
	GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	ListIssues(ctx context.Context, filter IssueFilter) ([]*models.Issue, error)
	UpdateIssue(ctx context.Context, i *models.Issue) error
	DeleteIssue(ctx context.Context, id uuid.UUID) error
	IssueExists(ctx context.Context, id uuid.UUID) (bool, error)
	IssueTitleInUse(ctx context.Context, projectID uuid.UUID, title string, exclude *uuid.UUID) (bool, error)

	// Issue history
	InsertIssueHistory(ctx context.Context, h *models.IssueHistory) error
	ListIssueHistory(ctx context.Context, issueID uuid.UUID) ([]*models.IssueHistory, error)

	// Teams and membership
	CreateTeam(ctx context.Context, t *models.Team) error
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, t *models.Team) error
	DeleteTeam(ctx context.Context, id uuid.UUID) error
	TeamExists(ctx context.Context, id uuid.UUID) (bool, error)
	TeamNameInUse(ctx context.Context, name string, exclude *uuid.UUID) (bool, error)
	AddTeamMember(ctx context.Context, teamID, userID uuid.UUID) error
	RemoveTeamMember(ctx context.Context, teamID, userID uuid.UUID) error
	IsTeamMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]*models.User, error)
	ListUserTeams(ctx context.Context, userID uuid.UUID) ([]*models.Team, error)

	// Labels and assignment
	CreateLabel(ctx context.Context, l *models.IssueLabel) error
	GetLabel(ctx context.Context, id uuid.UUID) (*models.IssueLabel, error)
	ListLabels(ctx context.Context) ([]*models.IssueLabel, error)
	UpdateLabel(ctx context.Context, l *models.IssueLabel) error
	DeleteLabel(ctx context.Context, id uuid.UUID) error
	LabelExists(ctx context.Context, id uuid.UUID) (bool, error)
	LabelNameInUse(ctx context.Context, name string, exclude *uuid.UUID) (bool, error)
	AssignLabel(ctx context.Context, issueID, labelID uuid.UUID) error
	UnassignLabel(ctx context.Context, issueID, labelID uuid.UUID) error
	IsLabelAssigned(ctx context.Context, issueID, labelID uuid.UUID) (bool, error)
	ListIssueLabels(ctx context.Context, issueID uuid.UUID) ([]*models.IssueLabel, error)

	// Comments
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListIssueComments(ctx context.Context, issueID uuid.UUID) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
	CommentExists(ctx context.Context, id uuid.UUID) (bool, error)

	// Attachments
	CreateAttachment(ctx context.Context, a *models.Attachment) error
	GetAttachment(ctx context.Context, id uuid.UUID) (*models.Attachment, error)
	ListIssueAttachments(ctx context.Context, issueID uuid.UUID) ([]*models.Attachment, error)
	DeleteAttachment(ctx context.Context, id uuid.UUID) error
	AttachmentExists(ctx context.Context, id uuid.UUID) (bool, error)

	// Transactions and lifecycle
	WithTx(ctx context.Context, fn func(tx Store) error) error
	Migrate(ctx context.Context) error
	Close() error
}
