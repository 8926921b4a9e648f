package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"
	"issuetracker/internal/store"
	"issuetracker/internal/validate"
)

// CreateUser validates a new user, hashes the password and persists.
// Email uniqueness is case-insensitive and global.
func (s *Service) CreateUser(ctx context.Context, in *models.UserInput) (*models.User, error) {
	if msgs := validate.UserForCreate(in); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	role, err := in.ResolveRole()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("resolve role: %w", err))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		ID:           s.ids.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.clock.Now(),
	}
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		inUse, err := tx.EmailInUse(ctx, in.Email, nil)
		if err != nil {
			return apperr.Internal(err)
		}
		if inUse {
			return apperr.Conflict("user", "email", in.Email)
		}
		return tx.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user created")
	return user, nil
}

// GetUser fetches a single user.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// ListUsers returns all users ordered by name.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

// UpdateUser applies an update to an existing user. An empty password
// keeps the stored hash; a non-empty one is re-hashed. CreatedAt never
// changes.
func (s *Service) UpdateUser(ctx context.Context, in *models.UserInput) (*models.User, error) {
	if msgs := validate.UserForUpdate(in); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	role, err := in.ResolveRole()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("resolve role: %w", err))
	}

	var user *models.User
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetUser(ctx, *in.ID)
		if err != nil {
			return err
		}

		inUse, err := tx.EmailInUse(ctx, in.Email, in.ID)
		if err != nil {
			return apperr.Internal(err)
		}
		if inUse {
			return apperr.Conflict("user", "email", in.Email)
		}

		hash := existing.PasswordHash
		if in.Password != "" {
			hash, err = s.hasher.Hash(in.Password)
			if err != nil {
				return apperr.Internal(err)
			}
		}

		user = &models.User{
			ID:           existing.ID,
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    existing.CreatedAt,
		}
		return tx.UpdateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user updated")
	return user, nil
}

// DeleteUser removes a user.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}

// Authenticate verifies an email/password pair and returns the matching
// user. Unknown email and wrong password both report invalid
// credentials so the error does not reveal which part failed.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		var nf *apperr.NotFoundError
		if errors.As(err, &nf) {
			return nil, apperr.InvalidState("user", "invalid credentials")
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperr.InvalidState("user", "invalid credentials")
	}
	return user, nil
}
