package models

import (
	"fmt"
	"strings"
)

// IssueStatus is the lifecycle state of an issue. Values are stable
// numeric ids (1-4) used both on the wire and in the database.
type IssueStatus int

const (
	StatusTodo IssueStatus = iota + 1
	StatusInProgress
	StatusDone
	StatusCancelled
)

var issueStatusNames = map[IssueStatus]string{
	StatusTodo:       "TODO",
	StatusInProgress: "IN_PROGRESS",
	StatusDone:       "DONE",
	StatusCancelled:  "CANCELLED",
}

func (s IssueStatus) Valid() bool {
	_, ok := issueStatusNames[s]
	return ok
}

func (s IssueStatus) String() string {
	if name, ok := issueStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("IssueStatus(%d)", int(s))
}

// IssueStatusFromName resolves a symbolic status name, e.g. "IN_PROGRESS".
// Matching ignores case and surrounding whitespace.
func IssueStatusFromName(name string) (IssueStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for s, n := range issueStatusNames {
		if n == normalized {
			return s, nil
		}
	}
	return 0, fmt.Errorf("invalid status name: %s", name)
}

// IssueStatusFromID resolves a numeric status id (1-4).
func IssueStatusFromID(id int) (IssueStatus, error) {
	s := IssueStatus(id)
	if !s.Valid() {
		return 0, fmt.Errorf("invalid status id: %d", id)
	}
	return s, nil
}

// IssuePriority is the urgency of an issue, numeric ids 1-4.
type IssuePriority int

const (
	PriorityLow IssuePriority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var issuePriorityNames = map[IssuePriority]string{
	PriorityLow:      "LOW",
	PriorityMedium:   "MEDIUM",
	PriorityHigh:     "HIGH",
	PriorityCritical: "CRITICAL",
}

func (p IssuePriority) Valid() bool {
	_, ok := issuePriorityNames[p]
	return ok
}

func (p IssuePriority) String() string {
	if name, ok := issuePriorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("IssuePriority(%d)", int(p))
}

// IssuePriorityFromName resolves a symbolic priority name, e.g. "HIGH".
// Matching ignores case and surrounding whitespace.
func IssuePriorityFromName(name string) (IssuePriority, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for p, n := range issuePriorityNames {
		if n == normalized {
			return p, nil
		}
	}
	return 0, fmt.Errorf("invalid priority name: %s", name)
}

// IssuePriorityFromID resolves a numeric priority id (1-4).
func IssuePriorityFromID(id int) (IssuePriority, error) {
	p := IssuePriority(id)
	if !p.Valid() {
		return 0, fmt.Errorf("invalid priority id: %d", id)
	}
	return p, nil
}

// UserRole is a user's role, numeric ids 1-4.
type UserRole int

const (
	RoleAdmin UserRole = iota + 1
	RoleProjectManager
	RoleDeveloper
	RoleTester
)

var userRoleNames = map[UserRole]string{
	RoleAdmin:          "ADMIN",
	RoleProjectManager: "PROJECT_MANAGER",
	RoleDeveloper:      "DEVELOPER",
	RoleTester:         "TESTER",
}

func (r UserRole) Valid() bool {
	_, ok := userRoleNames[r]
	return ok
}

func (r UserRole) String() string {
	if name, ok := userRoleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("UserRole(%d)", int(r))
}

// UserRoleFromName resolves a symbolic role name, e.g. "DEVELOPER".
// Matching ignores case and surrounding whitespace.
func UserRoleFromName(name string) (UserRole, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for r, n := range userRoleNames {
		if n == normalized {
			return r, nil
		}
	}
	return 0, fmt.Errorf("invalid role name: %s", name)
}

// UserRoleFromID resolves a numeric role id (1-4).
func UserRoleFromID(id int) (UserRole, error) {
	r := UserRole(id)
	if !r.Valid() {
		return 0, fmt.Errorf("invalid role id: %d", id)
	}
	return r, nil
}
