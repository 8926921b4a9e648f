package api

import (
	"time"

	"github.com/google/uuid"

	"issuetracker/internal/models"
)

// UserView is the wire shape of a user. The password hash never leaves
// the server.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	RoleID    int       `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}

func userView(u *models.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role.String(),
		RoleID:    int(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func userViews(users []*models.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	return views
}

// IssueView is the wire shape of an issue. Enums go out as both the
// symbolic name and the numeric id; the due date uses date precision.
type IssueView struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	StatusID    int        `json:"status_id"`
	Priority    string     `json:"priority"`
	PriorityID  int        `json:"priority_id"`
	ReporterID  uuid.UUID  `json:"reporter_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DueDate     string     `json:"due_date,omitempty"`
}

func issueView(i *models.Issue) IssueView {
	v := IssueView{
		ID:          i.ID,
		ProjectID:   i.ProjectID,
		Title:       i.Title,
		Description: i.Description,
		Status:      i.Status.String(),
		StatusID:    int(i.Status),
		Priority:    i.Priority.String(),
		PriorityID:  int(i.Priority),
		ReporterID:  i.ReporterID,
		AssigneeID:  i.AssigneeID,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
	if i.DueDate != nil {
		v.DueDate = i.DueDate.Format(models.DueDateLayout)
	}
	return v
}

func issueViews(issues []*models.Issue) []IssueView {
	views := make([]IssueView, 0, len(issues))
	for _, i := range issues {
		views = append(views, issueView(i))
	}
	return views
}
