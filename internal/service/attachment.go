package service

import (
	"context"

	"github.com/google/uuid"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"
	"issuetracker/internal/validate"
)

// CreateAttachment validates and persists an attachment record.
// Attachments are immutable once created; there is no update.
func (s *Service) CreateAttachment(ctx context.Context, in *models.AttachmentInput) (*models.Attachment, error) {
	if msgs := validate.AttachmentForCreate(in); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}
	if err := requireIssue(ctx, s.store, *in.IssueID); err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		ID:         s.ids.NewID(),
		IssueID:    *in.IssueID,
		Filename:   in.Filename,
		FileURL:    in.FileURL,
		UploadedAt: s.clock.Now(),
	}
	if err := s.store.CreateAttachment(ctx, attachment); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("attachment_id", attachment.ID.String()).
		Str("issue_id", attachment.IssueID.String()).
		Msg("attachment created")
	return attachment, nil
}

// GetAttachment fetches a single attachment record.
func (s *Service) GetAttachment(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	return s.store.GetAttachment(ctx, id)
}

// ListIssueAttachments returns an issue's attachments, oldest first.
func (s *Service) ListIssueAttachments(ctx context.Context, issueID uuid.UUID) ([]*models.Attachment, error) {
	if err := requireIssue(ctx, s.store, issueID); err != nil {
		return nil, err
	}
	return s.store.ListIssueAttachments(ctx, issueID)
}

// DeleteAttachment removes an attachment record.
func (s *Service) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteAttachment(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("attachment_id", id.String()).Msg("attachment deleted")
	return nil
}
