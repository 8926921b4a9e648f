// Package apperr defines the structured error kinds the service layer
// returns: aggregated validation failures, missing references,
// uniqueness/membership conflicts, and wrapped internal errors.
// Callers classify with errors.As instead of matching message text.
package apperr

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidationError aggregates every violated field rule for one entity.
// It is never partial: the rule validator collects all messages before
// returning.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, ", ")
}

// Validation builds a ValidationError from collected rule messages.
func Validation(messages []string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// NotFoundError reports a referenced or targeted entity that does not
// exist. Role names the reference position ("assignee", "owner") when
// the miss came from a foreign-key check rather than a direct lookup.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
	Role string
}

func (e *NotFoundError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("%s %s not found: %s", e.Role, e.Kind, e.ID)
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// NotFound reports a direct lookup miss.
func NotFound(kind string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// MissingRef reports a dangling foreign key found during referential
// integrity checking.
func MissingRef(kind string, id uuid.UUID, role string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id, Role: role}
}

// ConflictError reports something that already exists: a duplicate
// unique value, or a membership added twice.
type ConflictError struct {
	Kind  string
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s already exists: %s", e.Kind, e.Field, e.Value)
}

// Conflict reports a duplicate value or membership.
func Conflict(kind, field, value string) *ConflictError {
	return &ConflictError{Kind: kind, Field: field, Value: value}
}

// InvalidStateError reports an operation the current state forbids:
// removing a membership that is absent, deleting a user other rows
// still reference, or a failed credential check.
type InvalidStateError struct {
	Kind string
	Msg  string
}

func (e *InvalidStateError) Error() string {
	return e.Msg
}

// InvalidState reports an operation against the wrong state.
func InvalidState(kind, msg string) *InvalidStateError {
	return &InvalidStateError{Kind: kind, Msg: msg}
}

// InternalError wraps an unexpected failure from the persistence layer.
type InternalError struct {
	Cause error
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Cause.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// Internal wraps err as an InternalError. Returns nil for nil err.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return &InternalError{Cause: err}
}
