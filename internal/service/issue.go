package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"
	"issuetracker/internal/store"
	"issuetracker/internal/validate"
)

// resolveIssue normalizes the validated enum and date fields.
// Validation guarantees these resolve, so failures here are internal
// errors rather than user errors.
func resolveIssue(in *models.IssueInput) (models.IssueStatus, models.IssuePriority, *time.Time, error) {
	status, err := in.ResolveStatus()
	if err != nil {
		return 0, 0, nil, apperr.Internal(fmt.Errorf("resolve status: %w", err))
	}
	priority, err := in.ResolvePriority()
	if err != nil {
		return 0, 0, nil, apperr.Internal(fmt.Errorf("resolve priority: %w", err))
	}
	due, err := in.ResolveDueDate()
	if err != nil {
		return 0, 0, nil, apperr.Internal(fmt.Errorf("resolve due date: %w", err))
	}
	return status, priority, due, nil
}

// checkIssueRefs verifies the referenced users and project exist, in a
// fixed order: assignee first when present, then reporter, then project.
func checkIssueRefs(ctx context.Context, st store.Store, in *models.IssueInput) error {
	if in.AssigneeID != nil {
		if err := requireUser(ctx, st, *in.AssigneeID, "assignee"); err != nil {
			return err
		}
	}
	if err := requireUser(ctx, st, *in.ReporterID, "reporter"); err != nil {
		return err
	}
	return requireProject(ctx, st, *in.ProjectID)
}

// CreateIssue validates and persists a new issue. The service assigns
// the identifier and both timestamps; caller-supplied values for those
// fields are rejected during validation.
func (s *Service) CreateIssue(ctx context.Context, in *models.IssueInput) (*models.Issue, error) {
	now := s.clock.Now()
	if msgs := validate.IssueForCreate(in, now); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	status, priority, due, err := resolveIssue(in)
	if err != nil {
		return nil, err
	}
	if err := checkIssueRefs(ctx, s.store, in); err != nil {
		return nil, err
	}

	issue := &models.Issue{
		ID:          s.ids.NewID(),
		ProjectID:   *in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		ReporterID:  *in.ReporterID,
		AssigneeID:  in.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueDate:     due,
	}
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		taken, err := tx.IssueTitleInUse(ctx, *in.ProjectID, in.Title, nil)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.Conflict("issue", "title", in.Title)
		}
		return tx.CreateIssue(ctx, issue)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("issue_id", issue.ID.String()).
		Str("project_id", issue.ProjectID.String()).
		Msg("issue created")
	return issue, nil
}

// UpdateIssue validates and applies an update, recording one audit row
// per changed tracked field. A no-op update writes nothing and leaves
// updatedAt untouched. The existing-issue read, the uniqueness
// pre-check, the diff, the issue write and its history rows all share
// one transaction, so the recorded old values are exactly the state
// the update replaced.
func (s *Service) UpdateIssue(ctx context.Context, in *models.IssueInput, actor uuid.UUID) (*models.Issue, error) {
	now := s.clock.Now()
	if msgs := validate.IssueForUpdate(in, now); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	status, priority, due, err := resolveIssue(in)
	if err != nil {
		return nil, err
	}

	var updated *models.Issue
	var changes int
	var changed bool
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetIssue(ctx, *in.ID)
		if err != nil {
			return err
		}

		if err := checkIssueRefs(ctx, tx, in); err != nil {
			return err
		}
		if err := requireUser(ctx, tx, actor, "actor"); err != nil {
			return err
		}

		taken, err := tx.IssueTitleInUse(ctx, *in.ProjectID, in.Title, in.ID)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.Conflict("issue", "title", in.Title)
		}

		updated = &models.Issue{
			ID:          existing.ID,
			ProjectID:   *in.ProjectID,
			Title:       in.Title,
			Description: in.Description,
			Status:      status,
			Priority:    priority,
			ReporterID:  *in.ReporterID,
			AssigneeID:  in.AssigneeID,
			CreatedAt:   existing.CreatedAt,
			UpdatedAt:   existing.UpdatedAt,
			DueDate:     due,
		}

		history := computeDiff(existing, updated, actor, s.ids, now)
		changes = len(history)
		changed = changes > 0 ||
			updated.ProjectID != existing.ProjectID ||
			updated.ReporterID != existing.ReporterID
		if !changed {
			updated = existing
			return nil
		}

		updated.UpdatedAt = now
		if err := tx.UpdateIssue(ctx, updated); err != nil {
			return err
		}
		for _, h := range history {
			if err := tx.InsertIssueHistory(ctx, h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.log.Info().
			Str("issue_id", updated.ID.String()).
			Int("changes", changes).
			Msg("issue updated")
	}
	return updated, nil
}

// GetIssue fetches a single issue.
func (s *Service) GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	return s.store.GetIssue(ctx, id)
}

// DeleteIssue removes an issue and, via cascade, its history, comments,
// attachments and label assignments.
func (s *Service) DeleteIssue(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteIssue(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("issue_id", id.String()).Msg("issue deleted")
	return nil
}

// ListIssues returns all issues, newest first.
func (s *Service) ListIssues(ctx context.Context) ([]*models.Issue, error) {
	return s.store.ListIssues(ctx, store.IssueFilter{})
}

// ListProjectIssues returns the issues of one project.
func (s *Service) ListProjectIssues(ctx context.Context, projectID uuid.UUID) ([]*models.Issue, error) {
	if err := requireProject(ctx, s.store, projectID); err != nil {
		return nil, err
	}
	return s.store.ListIssues(ctx, store.IssueFilter{ProjectID: &projectID})
}

// ListIssuesByReporter returns the issues reported by one user.
func (s *Service) ListIssuesByReporter(ctx context.Context, reporterID uuid.UUID) ([]*models.Issue, error) {
	if err := requireUser(ctx, s.store, reporterID, "reporter"); err != nil {
		return nil, err
	}
	return s.store.ListIssues(ctx, store.IssueFilter{ReporterID: &reporterID})
}

// ListIssuesByAssignee returns the issues assigned to one user.
func (s *Service) ListIssuesByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*models.Issue, error) {
	if err := requireUser(ctx, s.store, assigneeID, "assignee"); err != nil {
		return nil, err
	}
	return s.store.ListIssues(ctx, store.IssueFilter{AssigneeID: &assigneeID})
}

// ListIssuesByStatus returns all issues with the given status.
func (s *Service) ListIssuesByStatus(ctx context.Context, status models.IssueStatus) ([]*models.Issue, error) {
	if !status.Valid() {
		return nil, apperr.Validation([]string{"Invalid statusId: must be between 1 and 4"})
	}
	return s.store.ListIssues(ctx, store.IssueFilter{Status: status})
}

// ListIssuesByPriority returns all issues with the given priority.
func (s *Service) ListIssuesByPriority(ctx context.Context, priority models.IssuePriority) ([]*models.Issue, error) {
	if !priority.Valid() {
		return nil, apperr.Validation([]string{"Invalid priorityId: must be between 1 and 4"})
	}
	return s.store.ListIssues(ctx, store.IssueFilter{Priority: priority})
}

// SearchIssuesByTitle returns issues whose title contains the query.
func (s *Service) SearchIssuesByTitle(ctx context.Context, query string) ([]*models.Issue, error) {
	return s.store.ListIssues(ctx, store.IssueFilter{TitleLike: query})
}

// GetIssueHistory returns the audit trail of an issue, newest first.
func (s *Service) GetIssueHistory(ctx context.Context, issueID uuid.UUID) ([]*models.IssueHistory, error) {
	if err := requireIssue(ctx, s.store, issueID); err != nil {
		return nil, err
	}
	return s.store.ListIssueHistory(ctx, issueID)
}
