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

func TestCreateProjectNameConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, svc, "owner@example.com")
	createProject(t, svc, owner.ID, "Alpha")

	_, err := svc.CreateProject(ctx, &models.ProjectInput{
		Name:    "ALPHA",
		OwnerID: &owner.ID,
	})
	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "project", conflict.Kind)
	assert.Equal(t, "name", conflict.Field)
}

func TestCreateProjectUnknownOwner(t *testing.T) {
	svc, _ := newTestService(t)

	ghost := uuid.New()
	_, err := svc.CreateProject(context.Background(), &models.ProjectInput{
		Name:    "Orphan",
		OwnerID: &ghost,
	})
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Kind)
	assert.Equal(t, "owner", nf.Role)
}

func TestCreateProjectValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProject(context.Background(), &models.ProjectInput{})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "Name is mandatory")
	assert.Contains(t, verr.Messages, "Owner ID is required")
}

func TestUpdateProjectBumpsUpdatedAt(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, svc, "owner@example.com")
	project := createProject(t, svc, owner.ID, "Alpha")

	clock.Advance(2 * time.Hour)
	updated, err := svc.UpdateProject(ctx, &models.ProjectInput{
		ID:          &project.ID,
		Name:        "Alpha Reborn",
		Description: "New direction",
		OwnerID:     &owner.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha Reborn", updated.Name)
	assert.True(t, updated.CreatedAt.Equal(project.CreatedAt), "createdAt is immutable")
	assert.Equal(t, clock.Now(), updated.UpdatedAt)
}

func TestUpdateProjectKeepOwnNameNoConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, svc, "owner@example.com")
	project := createProject(t, svc, owner.ID, "Alpha")
	createProject(t, svc, owner.ID, "Beta")

	_, err := svc.UpdateProject(ctx, &models.ProjectInput{
		ID:      &project.ID,
		Name:    "Alpha",
		OwnerID: &owner.ID,
	})
	require.NoError(t, err)

	_, err = svc.UpdateProject(ctx, &models.ProjectInput{
		ID:      &project.ID,
		Name:    "beta",
		OwnerID: &owner.ID,
	})
	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestDeleteProjectCascadesIssues(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, svc, "owner@example.com")
	project := createProject(t, svc, owner.ID, "Alpha")
	issue := createIssue(t, svc, project.ID, owner.ID, "Goes with the project")

	require.NoError(t, svc.DeleteProject(ctx, project.ID))

	var nf *apperr.NotFoundError
	_, err := svc.GetIssue(ctx, issue.ID)
	assert.ErrorAs(t, err, &nf)
}
