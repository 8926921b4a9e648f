package service

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time. The service stamps every entity
// itself so that tests can freeze time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// IDSource supplies entity identifiers.
type IDSource interface {
	NewID() uuid.UUID
}

type randomIDs struct{}

func (randomIDs) NewID() uuid.UUID { return uuid.New() }
