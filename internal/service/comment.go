package service

import (
	"context"

	"github.com/google/uuid"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"
	"issuetracker/internal/validate"
)

// CreateComment validates and persists a comment on an issue.
func (s *Service) CreateComment(ctx context.Context, in *models.CommentInput) (*models.Comment, error) {
	if msgs := validate.CommentForCreate(in); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}
	if err := requireIssue(ctx, s.store, *in.IssueID); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.store, *in.UserID, "author"); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        s.ids.NewID(),
		IssueID:   *in.IssueID,
		UserID:    *in.UserID,
		Text:      in.Text,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("comment_id", comment.ID.String()).
		Str("issue_id", comment.IssueID.String()).
		Msg("comment created")
	return comment, nil
}

// GetComment fetches a single comment.
func (s *Service) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.store.GetComment(ctx, id)
}

// ListIssueComments returns an issue's comments, oldest first.
func (s *Service) ListIssueComments(ctx context.Context, issueID uuid.UUID) ([]*models.Comment, error) {
	if err := requireIssue(ctx, s.store, issueID); err != nil {
		return nil, err
	}
	return s.store.ListIssueComments(ctx, issueID)
}

// UpdateComment replaces the text of an existing comment. The author,
// issue and creation time are immutable.
func (s *Service) UpdateComment(ctx context.Context, in *models.CommentInput) (*models.Comment, error) {
	if msgs := validate.CommentForUpdate(in); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	existing, err := s.store.GetComment(ctx, *in.ID)
	if err != nil {
		return nil, err
	}

	existing.Text = in.Text
	if err := s.store.UpdateComment(ctx, existing); err != nil {
		return nil, err
	}

	s.log.Info().Str("comment_id", existing.ID.String()).Msg("comment updated")
	return existing, nil
}

// DeleteComment removes a comment.
func (s *Service) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteComment(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("comment_id", id.String()).Msg("comment deleted")
	return nil
}
