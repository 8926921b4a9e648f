package service

import (
	"context"

	"github.com/google/uuid"

	"issuetracker/internal/apperr"
	"issuetracker/internal/store"
)

// Referential integrity checks. Each helper verifies that the
// referenced row exists and reports a missing-reference error naming
// the role the id plays (reporter, assignee, owner and so on).

func requireUser(ctx context.Context, st store.Store, id uuid.UUID, role string) error {
	ok, err := st.UserExists(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.MissingRef("user", id, role)
	}
	return nil
}

func requireProject(ctx context.Context, st store.Store, id uuid.UUID) error {
	ok, err := st.ProjectExists(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.MissingRef("project", id, "project")
	}
	return nil
}

func requireIssue(ctx context.Context, st store.Store, id uuid.UUID) error {
	ok, err := st.IssueExists(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.MissingRef("issue", id, "issue")
	}
	return nil
}

func requireTeam(ctx context.Context, st store.Store, id uuid.UUID) error {
	ok, err := st.TeamExists(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.MissingRef("team", id, "team")
	}
	return nil
}

func requireLabel(ctx context.Context, st store.Store, id uuid.UUID) error {
	ok, err := st.LabelExists(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.MissingRef("label", id, "label")
	}
	return nil
}
