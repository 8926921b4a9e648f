// Package service holds the business rules for the tracker: input
// validation, referential and uniqueness checks, enum normalization,
// audit recording and membership management. All persistence goes
// through the injected store.Store.
package service

import (
	"github.com/rs/zerolog"

	"issuetracker/internal/store"
)

// Service coordinates validation, integrity checks and persistence.
type Service struct {
	store  store.Store
	clock  Clock
	ids    IDSource
	hasher Hasher
	log    zerolog.Logger
}

// Option customizes a Service, mainly for tests.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithIDSource replaces the identifier generator.
func WithIDSource(ids IDSource) Option {
	return func(s *Service) { s.ids = ids }
}

// WithHasher replaces the password hasher.
func WithHasher(h Hasher) Option {
	return func(s *Service) { s.hasher = h }
}

// New creates a Service backed by st. Defaults: UTC wall clock, random
// UUIDs, bcrypt password hashing.
func New(st store.Store, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  st,
		clock:  systemClock{},
		ids:    randomIDs{},
		hasher: bcryptHasher{},
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
