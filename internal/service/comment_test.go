package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"
)

func TestCommentLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	author := createUser(t, svc, "author@example.com")
	project := createProject(t, svc, author.ID, "Alpha")
	issue := createIssue(t, svc, project.ID, author.ID, "Discussed issue")

	comment, err := svc.CreateComment(ctx, &models.CommentInput{
		IssueID: &issue.ID,
		UserID:  &author.ID,
		Text:    "Reproduced on staging",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, comment.ID)

	// only the text is mutable
	updated, err := svc.UpdateComment(ctx, &models.CommentInput{
		ID:   &comment.ID,
		Text: "Reproduced on staging and production",
	})
	require.NoError(t, err)
	assert.Equal(t, comment.IssueID, updated.IssueID)
	assert.Equal(t, comment.UserID, updated.UserID)
	assert.Equal(t, "Reproduced on staging and production", updated.Text)

	comments, err := svc.ListIssueComments(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	require.NoError(t, svc.DeleteComment(ctx, comment.ID))
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, svc.DeleteComment(ctx, comment.ID), &nf)
}

func TestCreateCommentValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateComment(context.Background(), &models.CommentInput{})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "Comment text is mandatory")
	assert.Contains(t, verr.Messages, "Issue ID is mandatory")
	assert.Contains(t, verr.Messages, "User ID is mandatory")
}

func TestCreateCommentUnknownIssue(t *testing.T) {
	svc, _ := newTestService(t)

	author := createUser(t, svc, "author@example.com")
	ghost := uuid.New()
	_, err := svc.CreateComment(context.Background(), &models.CommentInput{
		IssueID: &ghost,
		UserID:  &author.ID,
		Text:    "Orphan comment",
	})
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "issue", nf.Kind)
}

func TestAttachmentLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, svc, "owner@example.com")
	project := createProject(t, svc, owner.ID, "Alpha")
	issue := createIssue(t, svc, project.ID, owner.ID, "Issue with files")

	attachment, err := svc.CreateAttachment(ctx, &models.AttachmentInput{
		IssueID:  &issue.ID,
		Filename: "crash.log",
		FileURL:  "https://files.example.com/crash.log",
	})
	require.NoError(t, err)

	list, err := svc.ListIssueAttachments(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "crash.log", list[0].Filename)

	require.NoError(t, svc.DeleteAttachment(ctx, attachment.ID))
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, svc.DeleteAttachment(ctx, attachment.ID), &nf)
}

func TestCreateAttachmentValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateAttachment(context.Background(), &models.AttachmentInput{})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "Filename is required")
	assert.Contains(t, verr.Messages, "File URL is required")
	assert.Contains(t, verr.Messages, "Issue ID is required")
}
