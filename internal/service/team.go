package service

import (
	"context"

	"github.com/google/uuid"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"
	"issuetracker/internal/store"
	"issuetracker/internal/validate"
)

// CreateTeam validates and persists a new team. Team names are
// globally unique, compared case-insensitively.
func (s *Service) CreateTeam(ctx context.Context, in *models.TeamInput) (*models.Team, error) {
	if msgs := validate.TeamForCreate(in); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}
	if err := requireUser(ctx, s.store, *in.OwnerID, "owner"); err != nil {
		return nil, err
	}

	team := &models.Team{
		ID:        s.ids.NewID(),
		Name:      in.Name,
		OwnerID:   *in.OwnerID,
		CreatedAt: s.clock.Now(),
	}
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		taken, err := tx.TeamNameInUse(ctx, in.Name, nil)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.Conflict("team", "name", in.Name)
		}
		return tx.CreateTeam(ctx, team)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("team_id", team.ID.String()).Msg("team created")
	return team, nil
}

// GetTeam fetches a single team.
func (s *Service) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return s.store.GetTeam(ctx, id)
}

// ListTeams returns all teams ordered by name.
func (s *Service) ListTeams(ctx context.Context) ([]*models.Team, error) {
	return s.store.ListTeams(ctx)
}

// UpdateTeam applies an update to an existing team.
func (s *Service) UpdateTeam(ctx context.Context, in *models.TeamInput) (*models.Team, error) {
	if msgs := validate.TeamForUpdate(in); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	if err := requireUser(ctx, s.store, *in.OwnerID, "owner"); err != nil {
		return nil, err
	}

	var team *models.Team
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetTeam(ctx, *in.ID)
		if err != nil {
			return err
		}

		taken, err := tx.TeamNameInUse(ctx, in.Name, in.ID)
		if err != nil {
			return apperr.Internal(err)
		}
		if taken {
			return apperr.Conflict("team", "name", in.Name)
		}

		team = &models.Team{
			ID:        existing.ID,
			Name:      in.Name,
			OwnerID:   *in.OwnerID,
			CreatedAt: existing.CreatedAt,
		}
		return tx.UpdateTeam(ctx, team)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("team_id", team.ID.String()).Msg("team updated")
	return team, nil
}

// DeleteTeam removes a team and its membership rows.
func (s *Service) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteTeam(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("team_id", id.String()).Msg("team deleted")
	return nil
}

// AddTeamMember adds a user to a team. Adding a user who is already a
// member is a conflict, not a silent no-op. The membership check and
// the insert share one transaction.
func (s *Service) AddTeamMember(ctx context.Context, teamID, userID uuid.UUID) error {
	if err := requireTeam(ctx, s.store, teamID); err != nil {
		return err
	}
	if err := requireUser(ctx, s.store, userID, "member"); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		isMember, err := tx.IsTeamMember(ctx, teamID, userID)
		if err != nil {
			return apperr.Internal(err)
		}
		if isMember {
			return apperr.Conflict("team", "member", userID.String())
		}
		return tx.AddTeamMember(ctx, teamID, userID)
	})
	if err != nil {
		return err
	}
	s.log.Info().
		Str("team_id", teamID.String()).
		Str("user_id", userID.String()).
		Msg("team member added")
	return nil
}

// RemoveTeamMember removes a user from a team. Removing a user who is
// not a member is rejected as an invalid state.
func (s *Service) RemoveTeamMember(ctx context.Context, teamID, userID uuid.UUID) error {
	if err := requireTeam(ctx, s.store, teamID); err != nil {
		return err
	}
	if err := requireUser(ctx, s.store, userID, "member"); err != nil {
		return err
	}

	if err := s.store.RemoveTeamMember(ctx, teamID, userID); err != nil {
		return err
	}
	s.log.Info().
		Str("team_id", teamID.String()).
		Str("user_id", userID.String()).
		Msg("team member removed")
	return nil
}

// ListTeamMembers returns the users belonging to a team.
func (s *Service) ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]*models.User, error) {
	if err := requireTeam(ctx, s.store, teamID); err != nil {
		return nil, err
	}
	return s.store.ListTeamMembers(ctx, teamID)
}

// ListUserTeams returns the teams a user belongs to.
func (s *Service) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]*models.Team, error) {
	if err := requireUser(ctx, s.store, userID, "member"); err != nil {
		return nil, err
	}
	return s.store.ListUserTeams(ctx, userID)
}
