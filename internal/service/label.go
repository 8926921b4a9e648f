package service

import (
	"context"

	"github.com/google/uuid"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"
	"issuetracker/internal/store"
	"issuetracker/internal/validate"
)

// CreateLabel validates and persists a new label. Label names are
// globally unique, compared case-insensitively.
func (s *Service) CreateLabel(ctx context.Context, in *models.LabelInput) (*models.IssueLabel, error) {
	if msgs := validate.LabelForCreate(in); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	label := &models.IssueLabel{
		ID:        s.ids.NewID(),
		Name:      in.Name,
		CreatedAt: s.clock.Now(),
	}
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		taken, err := tx.LabelNameInUse(ctx, in.Name, nil)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.Conflict("label", "name", in.Name)
		}
		return tx.CreateLabel(ctx, label)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("label_id", label.ID.String()).Msg("label created")
	return label, nil
}

// GetLabel fetches a single label.
func (s *Service) GetLabel(ctx context.Context, id uuid.UUID) (*models.IssueLabel, error) {
	return s.store.GetLabel(ctx, id)
}

// ListLabels returns all labels ordered by name.
func (s *Service) ListLabels(ctx context.Context) ([]*models.IssueLabel, error) {
	return s.store.ListLabels(ctx)
}

// UpdateLabel renames an existing label.
func (s *Service) UpdateLabel(ctx context.Context, in *models.LabelInput) (*models.IssueLabel, error) {
	if msgs := validate.LabelForUpdate(in); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	var label *models.IssueLabel
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetLabel(ctx, *in.ID)
		if err != nil {
			return err
		}

		taken, err := tx.LabelNameInUse(ctx, in.Name, in.ID)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.Conflict("label", "name", in.Name)
		}

		label = &models.IssueLabel{
			ID:        existing.ID,
			Name:      in.Name,
			CreatedAt: existing.CreatedAt,
		}
		return tx.UpdateLabel(ctx, label)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("label_id", label.ID.String()).Msg("label updated")
	return label, nil
}

// DeleteLabel removes a label and its issue assignments.
func (s *Service) DeleteLabel(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteLabel(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("label_id", id.String()).Msg("label deleted")
	return nil
}

// AssignLabel attaches a label to an issue. Assigning a label that is
// already on the issue is a conflict. The assignment check and the
// insert share one transaction.
func (s *Service) AssignLabel(ctx context.Context, issueID, labelID uuid.UUID) error {
	if err := requireIssue(ctx, s.store, issueID); err != nil {
		return err
	}
	if err := requireLabel(ctx, s.store, labelID); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		assigned, err := tx.IsLabelAssigned(ctx, issueID, labelID)
		if err != nil {
			return apperr.Internal(err)
		}
		if assigned {
			return apperr.Conflict("issue", "label", labelID.String())
		}
		return tx.AssignLabel(ctx, issueID, labelID)
	})
	if err != nil {
		return err
	}
	s.log.Info().
		Str("issue_id", issueID.String()).
		Str("label_id", labelID.String()).
		Msg("label assigned")
	return nil
}

// UnassignLabel detaches a label from an issue. Detaching a label that
// is not on the issue is rejected as an invalid state.
func (s *Service) UnassignLabel(ctx context.Context, issueID, labelID uuid.UUID) error {
	if err := requireIssue(ctx, s.store, issueID); err != nil {
		return err
	}
	if err := requireLabel(ctx, s.store, labelID); err != nil {
		return err
	}

	if err := s.store.UnassignLabel(ctx, issueID, labelID); err != nil {
		return err
	}
	s.log.Info().
		Str("issue_id", issueID.String()).
		Str("label_id", labelID.String()).
		Msg("label unassigned")
	return nil
}

// ListIssueLabels returns the labels attached to an issue.
func (s *Service) ListIssueLabels(ctx context.Context, issueID uuid.UUID) ([]*models.IssueLabel, error) {
	if err := requireIssue(ctx, s.store, issueID); err != nil {
		return nil, err
	}
	return s.store.ListIssueLabels(ctx, issueID)
}
