package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"issuetracker/internal/models"
	"issuetracker/internal/store"
)

// fakeClock returns a fixed instant until advanced.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeHasher makes password hashing observable without bcrypt cost.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (fakeHasher) Compare(hash, plaintext string) error {
	if hash != "hashed:"+plaintext {
		return bcryptMismatch
	}
	return nil
}

var bcryptMismatch = errMismatch{}

type errMismatch struct{}

func (errMismatch) Error() string { return "hash mismatch" }

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	clock := &fakeClock{now: time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)}
	svc := New(st, zerolog.Nop(), WithClock(clock), WithHasher(fakeHasher{}))
	return svc, clock
}

func createUser(t *testing.T, svc *Service, email string) *models.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), &models.UserInput{
		Name:     "Test User",
		Email:    email,
		Password: "correct-horse",
		Role:     "DEVELOPER",
	})
	require.NoError(t, err)
	return u
}

func createProject(t *testing.T, svc *Service, owner uuid.UUID, name string) *models.Project {
	t.Helper()
	p, err := svc.CreateProject(context.Background(), &models.ProjectInput{
		Name:    name,
		OwnerID: &owner,
	})
	require.NoError(t, err)
	return p
}

func createIssue(t *testing.T, svc *Service, project, reporter uuid.UUID, title string) *models.Issue {
	t.Helper()
	i, err := svc.CreateIssue(context.Background(), &models.IssueInput{
		ProjectID:  &project,
		Title:      title,
		Status:     "TODO",
		PriorityID: intPtr(int(models.PriorityMedium)),
		ReporterID: &reporter,
	})
	require.NoError(t, err)
	return i
}
