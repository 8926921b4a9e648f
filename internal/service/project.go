package service

import (
	"context"

	"github.com/google/uuid"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"
	"issuetracker/internal/store"
	"issuetracker/internal/validate"
)

// CreateProject validates and persists a new project. Project names
// are globally unique, compared case-insensitively.
func (s *Service) CreateProject(ctx context.Context, in *models.ProjectInput) (*models.Project, error) {
	if msgs := validate.ProjectForCreate(in); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}
	if err := requireUser(ctx, s.store, *in.OwnerID, "owner"); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	project := &models.Project{
		ID:          s.ids.NewID(),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     *in.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		taken, err := tx.ProjectNameInUse(ctx, in.Name, nil)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.Conflict("project", "name", in.Name)
		}
		return tx.CreateProject(ctx, project)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("project_id", project.ID.String()).Msg("project created")
	return project, nil
}

// GetProject fetches a single project.
func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.store.GetProject(ctx, id)
}

// ListProjects returns all projects ordered by name.
func (s *Service) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.store.ListProjects(ctx)
}

// UpdateProject applies an update to an existing project. CreatedAt is
// immutable; UpdatedAt is bumped on every successful update.
func (s *Service) UpdateProject(ctx context.Context, in *models.ProjectInput) (*models.Project, error) {
	if msgs := validate.ProjectForUpdate(in); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	var project *models.Project
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetProject(ctx, *in.ID)
		if err != nil {
			return err
		}
		if err := requireUser(ctx, tx, *in.OwnerID, "owner"); err != nil {
			return err
		}

		taken, err := tx.ProjectNameInUse(ctx, in.Name, in.ID)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.Conflict("project", "name", in.Name)
		}

		project = &models.Project{
			ID:          existing.ID,
			Name:        in.Name,
			Description: in.Description,
			OwnerID:     *in.OwnerID,
			CreatedAt:   existing.CreatedAt,
			UpdatedAt:   s.clock.Now(),
		}
		return tx.UpdateProject(ctx, project)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("project_id", project.ID.String()).Msg("project updated")
	return project, nil
}

// DeleteProject removes a project and, via cascade, its issues.
func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("project_id", id.String()).Msg("project deleted")
	return nil
}
