package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"

	sqlite "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx.
// SQLiteStore runs its queries through it so the same methods serve
// both the plain store and the transaction-scoped view from WithTx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
	q  dbtx
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single connection
	// serializes all access through Go's pool and avoids "database is
	// locked" errors under concurrent requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db, q: db}, nil
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// WithTx runs fn against a transaction-scoped view of the store.
// Calls nested inside an open transaction reuse it.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&SQLiteStore{db: s.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
// The storage constraint is the authoritative uniqueness check; callers
// re-map these to apperr.Conflict.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		// 2067 = SQLITE_CONSTRAINT_UNIQUE, 1555 = SQLITE_CONSTRAINT_PRIMARYKEY
		return se.Code() == 2067 || se.Code() == 1555
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation reports whether err came from a FOREIGN KEY
// constraint, i.e. a delete blocked by rows that still reference the
// target.
func isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		// 787 = SQLITE_CONSTRAINT_FOREIGNKEY, 1811 = SQLITE_CONSTRAINT_TRIGGER
		return se.Code() == 787 || se.Code() == 1811
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func (s *SQLiteStore) exists(ctx context.Context, table, idCol string, id uuid.UUID) (bool, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", table, idCol)
	if err := s.q.QueryRowContext(ctx, query, id.String()).Scan(&count); err != nil {
		return false, fmt.Errorf("check %s exists: %w", table, err)
	}
	return count > 0, nil
}

func (s *SQLiteStore) nameInUse(ctx context.Context, table, nameCol, idCol, name string, exclude *uuid.UUID) (bool, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE LOWER(%s) = LOWER(?)", table, nameCol)
	args := []any{strings.TrimSpace(name)}
	if exclude != nil {
		query += fmt.Sprintf(" AND %s != ?", idCol)
		args = append(args, exclude.String())
	}
	var count int
	if err := s.q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("check %s name in use: %w", table, err)
	}
	return count > 0, nil
}

func uuidString(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func scanUUID(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func dueDateString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(models.DueDateLayout)
}

func scanDueDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DueDateLayout, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --- Users ---

const userColumns = "user_id, name, email, password_hash, role_id, created_at"

func (s *SQLiteStore) scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var id string
	var roleID int
	if err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &roleID, &u.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	u.ID = parsed
	u.Role = models.UserRole(roleID)
	return u, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT INTO users (user_id, name, email, password_hash, role_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		u.ID.String(), u.Name, u.Email, u.PasswordHash, int(u.Role), u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("user", "email", u.Email)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_id = ?", id.String())
	u, err := s.scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER(?)", strings.TrimSpace(email))
	u, err := s.scanUser(row)
	if err == sql.ErrNoRows {
		return nil, &apperr.NotFoundError{Kind: "user"}
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*models.User
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, u *models.User) error {
	result, err := s.q.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, password_hash=?, role_id=? WHERE user_id=?",
		u.Name, u.Email, u.PasswordHash, int(u.Role), u.ID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("user", "email", u.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("user", u.ID)
	}
	return nil
}

// DeleteUser removes a user. Projects, teams, issues, comments and
// history rows keep their author references, so deleting a user those
// rows still point at is refused rather than cascaded.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM users WHERE user_id = ?", id.String())
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.InvalidState("user", "user is still referenced by projects, teams, issues or comments and cannot be deleted")
		}
		return fmt.Errorf("delete user: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("user", id)
	}
	return nil
}

func (s *SQLiteStore) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "users", "user_id", id)
}

func (s *SQLiteStore) EmailInUse(ctx context.Context, email string, exclude *uuid.UUID) (bool, error) {
	return s.nameInUse(ctx, "users", "email", "user_id", email, exclude)
}

// --- Projects ---

const projectColumns = "project_id, name, description, owner_id, created_at, updated_at"

func (s *SQLiteStore) scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	var id, ownerID string
	if err := row.Scan(&id, &p.Name, &p.Description, &ownerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse project id: %w", err)
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("parse owner id: %w", err)
	}
	p.ID = parsed
	p.OwnerID = owner
	return p, nil
}

func (s *SQLiteStore) CreateProject(ctx context.Context, p *models.Project) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT INTO projects (project_id, name, description, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		p.ID.String(), p.Name, p.Description, p.OwnerID.String(), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("project", "name", p.Name)
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE project_id = ?", id.String())
	p, err := s.scanProject(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("project", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]*models.Project, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*models.Project
	for rows.Next() {
		p, err := s.scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *SQLiteStore) UpdateProject(ctx context.Context, p *models.Project) error {
	result, err := s.q.ExecContext(ctx,
		"UPDATE projects SET name=?, description=?, owner_id=?, updated_at=? WHERE project_id=?",
		p.Name, p.Description, p.OwnerID.String(), p.UpdatedAt, p.ID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("project", "name", p.Name)
		}
		return fmt.Errorf("update project: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("project", p.ID)
	}
	return nil
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM projects WHERE project_id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("project", id)
	}
	return nil
}

func (s *SQLiteStore) ProjectExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "projects", "project_id", id)
}

func (s *SQLiteStore) ProjectNameInUse(ctx context.Context, name string, exclude *uuid.UUID) (bool, error) {
	return s.nameInUse(ctx, "projects", "name", "project_id", name, exclude)
}

// --- Issues ---

const issueColumns = "issue_id, project_id, title, description, status_id, priority_id, reporter_id, assignee_id, created_at, updated_at, due_date"

func (s *SQLiteStore) scanIssue(row interface{ Scan(...any) error }) (*models.Issue, error) {
	i := &models.Issue{}
	var id, projectID, reporterID string
	var statusID, priorityID int
	var assigneeID, dueDate sql.NullString
	if err := row.Scan(&id, &projectID, &i.Title, &i.Description, &statusID, &priorityID,
		&reporterID, &assigneeID, &i.CreatedAt, &i.UpdatedAt, &dueDate); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse issue id: %w", err)
	}
	project, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("parse project id: %w", err)
	}
	reporter, err := uuid.Parse(reporterID)
	if err != nil {
		return nil, fmt.Errorf("parse reporter id: %w", err)
	}
	assignee, err := scanUUID(assigneeID)
	if err != nil {
		return nil, fmt.Errorf("parse assignee id: %w", err)
	}
	due, err := scanDueDate(dueDate)
	if err != nil {
		return nil, fmt.Errorf("parse due date: %w", err)
	}

	i.ID = parsed
	i.ProjectID = project
	i.ReporterID = reporter
	i.AssigneeID = assignee
	i.Status = models.IssueStatus(statusID)
	i.Priority = models.IssuePriority(priorityID)
	i.DueDate = due
	return i, nil
}

func (s *SQLiteStore) CreateIssue(ctx context.Context, i *models.Issue) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO issues (issue_id, project_id, title, description, status_id, priority_id, reporter_id, assignee_id, created_at, updated_at, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID.String(), i.ProjectID.String(), i.Title, i.Description,
		int(i.Status), int(i.Priority), i.ReporterID.String(), uuidString(i.AssigneeID),
		i.CreatedAt, i.UpdatedAt, dueDateString(i.DueDate),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("issue", "title", i.Title)
		}
		return fmt.Errorf("create issue: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+issueColumns+" FROM issues WHERE issue_id = ?", id.String())
	i, err := s.scanIssue(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("issue", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return i, nil
}

func (s *SQLiteStore) ListIssues(ctx context.Context, filter IssueFilter) ([]*models.Issue, error) {
	query := "SELECT " + issueColumns + " FROM issues"
	var conditions []string
	var args []any

	if filter.ProjectID != nil {
		conditions = append(conditions, "project_id = ?")
		args = append(args, filter.ProjectID.String())
	}
	if filter.ReporterID != nil {
		conditions = append(conditions, "reporter_id = ?")
		args = append(args, filter.ReporterID.String())
	}
	if filter.AssigneeID != nil {
		conditions = append(conditions, "assignee_id = ?")
		args = append(args, filter.AssigneeID.String())
	}
	if filter.Status != 0 {
		conditions = append(conditions, "status_id = ?")
		args = append(args, int(filter.Status))
	}
	if filter.Priority != 0 {
		conditions = append(conditions, "priority_id = ?")
		args = append(args, int(filter.Priority))
	}
	if filter.TitleLike != "" {
		conditions = append(conditions, "title LIKE ?")
		args = append(args, "%"+filter.TitleLike+"%")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var issues []*models.Issue
	for rows.Next() {
		i, err := s.scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

func (s *SQLiteStore) UpdateIssue(ctx context.Context, i *models.Issue) error {
	result, err := s.q.ExecContext(ctx,
		`UPDATE issues SET title=?, description=?, status_id=?, priority_id=?, reporter_id=?, assignee_id=?, updated_at=?, due_date=?
		WHERE issue_id=?`,
		i.Title, i.Description, int(i.Status), int(i.Priority),
		i.ReporterID.String(), uuidString(i.AssigneeID), i.UpdatedAt, dueDateString(i.DueDate),
		i.ID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("issue", "title", i.Title)
		}
		return fmt.Errorf("update issue: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("issue", i.ID)
	}
	return nil
}

func (s *SQLiteStore) DeleteIssue(ctx context.Context, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM issues WHERE issue_id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("issue", id)
	}
	return nil
}

func (s *SQLiteStore) IssueExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "issues", "issue_id", id)
}

func (s *SQLiteStore) IssueTitleInUse(ctx context.Context, projectID uuid.UUID, title string, exclude *uuid.UUID) (bool, error) {
	query := "SELECT COUNT(*) FROM issues WHERE LOWER(title) = LOWER(?) AND project_id = ?"
	args := []any{strings.TrimSpace(title), projectID.String()}
	if exclude != nil {
		query += " AND issue_id != ?"
		args = append(args, exclude.String())
	}
	var count int
	if err := s.q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("check issue title in use: %w", err)
	}
	return count > 0, nil
}

// --- Issue history ---

func (s *SQLiteStore) InsertIssueHistory(ctx context.Context, h *models.IssueHistory) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO issue_history (history_id, issue_id, changed_by_user_id, field_name, old_value, new_value, changed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID.String(), h.IssueID.String(), h.ChangedBy.String(),
		h.Field, h.OldValue, h.NewValue, h.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert issue history: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListIssueHistory(ctx context.Context, issueID uuid.UUID) ([]*models.IssueHistory, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT history_id, issue_id, changed_by_user_id, field_name, old_value, new_value, changed_at
		FROM issue_history WHERE issue_id = ? ORDER BY changed_at DESC`, issueID.String())
	if err != nil {
		return nil, fmt.Errorf("list issue history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []*models.IssueHistory
	for rows.Next() {
		h := &models.IssueHistory{}
		var id, issue, changedBy string
		var oldValue, newValue sql.NullString
		if err := rows.Scan(&id, &issue, &changedBy, &h.Field, &oldValue, &newValue, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan issue history: %w", err)
		}
		hid, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse history id: %w", err)
		}
		iid, err := uuid.Parse(issue)
		if err != nil {
			return nil, fmt.Errorf("parse issue id: %w", err)
		}
		actor, err := uuid.Parse(changedBy)
		if err != nil {
			return nil, fmt.Errorf("parse changed-by id: %w", err)
		}
		h.ID = hid
		h.IssueID = iid
		h.ChangedBy = actor
		if oldValue.Valid {
			v := oldValue.String
			h.OldValue = &v
		}
		if newValue.Valid {
			v := newValue.String
			h.NewValue = &v
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// --- Teams ---

const teamColumns = "team_id, name, owner_id, created_at"

func (s *SQLiteStore) scanTeam(row interface{ Scan(...any) error }) (*models.Team, error) {
	t := &models.Team{}
	var id, ownerID string
	if err := row.Scan(&id, &t.Name, &ownerID, &t.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse team id: %w", err)
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("parse owner id: %w", err)
	}
	t.ID = parsed
	t.OwnerID = owner
	return t, nil
}

func (s *SQLiteStore) CreateTeam(ctx context.Context, t *models.Team) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT INTO teams (team_id, name, owner_id, created_at) VALUES (?, ?, ?, ?)",
		t.ID.String(), t.Name, t.OwnerID.String(), t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("team", "name", t.Name)
		}
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+teamColumns+" FROM teams WHERE team_id = ?", id.String())
	t, err := s.scanTeam(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("team", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) ListTeams(ctx context.Context) ([]*models.Team, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT "+teamColumns+" FROM teams ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var teams []*models.Team
	for rows.Next() {
		t, err := s.scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *SQLiteStore) UpdateTeam(ctx context.Context, t *models.Team) error {
	result, err := s.q.ExecContext(ctx,
		"UPDATE teams SET name=?, owner_id=? WHERE team_id=?",
		t.Name, t.OwnerID.String(), t.ID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("team", "name", t.Name)
		}
		return fmt.Errorf("update team: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("team", t.ID)
	}
	return nil
}

func (s *SQLiteStore) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM teams WHERE team_id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("team", id)
	}
	return nil
}

func (s *SQLiteStore) TeamExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "teams", "team_id", id)
}

func (s *SQLiteStore) TeamNameInUse(ctx context.Context, name string, exclude *uuid.UUID) (bool, error) {
	return s.nameInUse(ctx, "teams", "name", "team_id", name, exclude)
}

func (s *SQLiteStore) AddTeamMember(ctx context.Context, teamID, userID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT INTO team_members (team_id, user_id) VALUES (?, ?)",
		teamID.String(), userID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("team", "member", userID.String())
		}
		return fmt.Errorf("add team member: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveTeamMember(ctx context.Context, teamID, userID uuid.UUID) error {
	result, err := s.q.ExecContext(ctx,
		"DELETE FROM team_members WHERE team_id = ? AND user_id = ?",
		teamID.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("remove team member: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.InvalidState("team", "user is not a member of this team")
	}
	return nil
}

func (s *SQLiteStore) IsTeamMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM team_members WHERE team_id = ? AND user_id = ?",
		teamID.String(), userID.String(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check team membership: %w", err)
	}
	return count > 0, nil
}

func (s *SQLiteStore) ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]*models.User, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT u.user_id, u.name, u.email, u.password_hash, u.role_id, u.created_at
		FROM users u
		JOIN team_members tm ON u.user_id = tm.user_id
		WHERE tm.team_id = ? ORDER BY u.name`, teamID.String())
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var members []*models.User
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

func (s *SQLiteStore) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]*models.Team, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT t.team_id, t.name, t.owner_id, t.created_at
		FROM teams t
		JOIN team_members tm ON t.team_id = tm.team_id
		WHERE tm.user_id = ? ORDER BY t.name`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list user teams: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var teams []*models.Team
	for rows.Next() {
		t, err := s.scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// --- Labels ---

const labelColumns = "label_id, name, created_at"

func (s *SQLiteStore) scanLabel(row interface{ Scan(...any) error }) (*models.IssueLabel, error) {
	l := &models.IssueLabel{}
	var id string
	if err := row.Scan(&id, &l.Name, &l.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse label id: %w", err)
	}
	l.ID = parsed
	return l, nil
}

func (s *SQLiteStore) CreateLabel(ctx context.Context, l *models.IssueLabel) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT INTO issue_labels (label_id, name, created_at) VALUES (?, ?, ?)",
		l.ID.String(), l.Name, l.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("label", "name", l.Name)
		}
		return fmt.Errorf("create label: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetLabel(ctx context.Context, id uuid.UUID) (*models.IssueLabel, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+labelColumns+" FROM issue_labels WHERE label_id = ?", id.String())
	l, err := s.scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("label", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get label: %w", err)
	}
	return l, nil
}

func (s *SQLiteStore) ListLabels(ctx context.Context) ([]*models.IssueLabel, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT "+labelColumns+" FROM issue_labels ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var labels []*models.IssueLabel
	for rows.Next() {
		l, err := s.scanLabel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (s *SQLiteStore) UpdateLabel(ctx context.Context, l *models.IssueLabel) error {
	result, err := s.q.ExecContext(ctx,
		"UPDATE issue_labels SET name=? WHERE label_id=?",
		l.Name, l.ID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("label", "name", l.Name)
		}
		return fmt.Errorf("update label: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("label", l.ID)
	}
	return nil
}

func (s *SQLiteStore) DeleteLabel(ctx context.Context, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM issue_labels WHERE label_id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete label: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("label", id)
	}
	return nil
}

func (s *SQLiteStore) LabelExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "issue_labels", "label_id", id)
}

func (s *SQLiteStore) LabelNameInUse(ctx context.Context, name string, exclude *uuid.UUID) (bool, error) {
	return s.nameInUse(ctx, "issue_labels", "name", "label_id", name, exclude)
}

func (s *SQLiteStore) AssignLabel(ctx context.Context, issueID, labelID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT INTO issue_label_mapping (issue_id, label_id) VALUES (?, ?)",
		issueID.String(), labelID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("issue", "label", labelID.String())
		}
		return fmt.Errorf("assign label: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UnassignLabel(ctx context.Context, issueID, labelID uuid.UUID) error {
	result, err := s.q.ExecContext(ctx,
		"DELETE FROM issue_label_mapping WHERE issue_id = ? AND label_id = ?",
		issueID.String(), labelID.String(),
	)
	if err != nil {
		return fmt.Errorf("unassign label: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.InvalidState("label", "label is not assigned to this issue")
	}
	return nil
}

func (s *SQLiteStore) IsLabelAssigned(ctx context.Context, issueID, labelID uuid.UUID) (bool, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM issue_label_mapping WHERE issue_id = ? AND label_id = ?",
		issueID.String(), labelID.String(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check label assignment: %w", err)
	}
	return count > 0, nil
}

func (s *SQLiteStore) ListIssueLabels(ctx context.Context, issueID uuid.UUID) ([]*models.IssueLabel, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT l.label_id, l.name, l.created_at
		FROM issue_labels l
		JOIN issue_label_mapping m ON l.label_id = m.label_id
		WHERE m.issue_id = ? ORDER BY l.name`, issueID.String())
	if err != nil {
		return nil, fmt.Errorf("list issue labels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var labels []*models.IssueLabel
	for rows.Next() {
		l, err := s.scanLabel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// --- Comments ---

const commentColumns = "comment_id, issue_id, user_id, text, created_at"

func (s *SQLiteStore) scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	c := &models.Comment{}
	var id, issueID, userID string
	if err := row.Scan(&id, &issueID, &userID, &c.Text, &c.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse comment id: %w", err)
	}
	issue, err := uuid.Parse(issueID)
	if err != nil {
		return nil, fmt.Errorf("parse issue id: %w", err)
	}
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	c.ID = parsed
	c.IssueID = issue
	c.UserID = user
	return c, nil
}

func (s *SQLiteStore) CreateComment(ctx context.Context, c *models.Comment) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT INTO comments (comment_id, issue_id, user_id, text, created_at) VALUES (?, ?, ?, ?, ?)",
		c.ID.String(), c.IssueID.String(), c.UserID.String(), c.Text, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE comment_id = ?", id.String())
	c, err := s.scanComment(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("comment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) ListIssueComments(ctx context.Context, issueID uuid.UUID) ([]*models.Comment, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE issue_id = ? ORDER BY created_at", issueID.String())
	if err != nil {
		return nil, fmt.Errorf("list issue comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var comments []*models.Comment
	for rows.Next() {
		c, err := s.scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *SQLiteStore) UpdateComment(ctx context.Context, c *models.Comment) error {
	result, err := s.q.ExecContext(ctx,
		"UPDATE comments SET text=? WHERE comment_id=?",
		c.Text, c.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("comment", c.ID)
	}
	return nil
}

func (s *SQLiteStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM comments WHERE comment_id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("comment", id)
	}
	return nil
}

func (s *SQLiteStore) CommentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "comments", "comment_id", id)
}

// --- Attachments ---

const attachmentColumns = "attachment_id, issue_id, filename, file_url, uploaded_at"

func (s *SQLiteStore) scanAttachment(row interface{ Scan(...any) error }) (*models.Attachment, error) {
	a := &models.Attachment{}
	var id, issueID string
	if err := row.Scan(&id, &issueID, &a.Filename, &a.FileURL, &a.UploadedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse attachment id: %w", err)
	}
	issue, err := uuid.Parse(issueID)
	if err != nil {
		return nil, fmt.Errorf("parse issue id: %w", err)
	}
	a.ID = parsed
	a.IssueID = issue
	return a, nil
}

func (s *SQLiteStore) CreateAttachment(ctx context.Context, a *models.Attachment) error {
	_, err := s.q.ExecContext(ctx,
		"INSERT INTO attachments (attachment_id, issue_id, filename, file_url, uploaded_at) VALUES (?, ?, ?, ?, ?)",
		a.ID.String(), a.IssueID.String(), a.Filename, a.FileURL, a.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAttachment(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	row := s.q.QueryRowContext(ctx,
		"SELECT "+attachmentColumns+" FROM attachments WHERE attachment_id = ?", id.String())
	a, err := s.scanAttachment(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("attachment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) ListIssueAttachments(ctx context.Context, issueID uuid.UUID) ([]*models.Attachment, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT "+attachmentColumns+" FROM attachments WHERE issue_id = ? ORDER BY uploaded_at", issueID.String())
	if err != nil {
		return nil, fmt.Errorf("list issue attachments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var attachments []*models.Attachment
	for rows.Next() {
		a, err := s.scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (s *SQLiteStore) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM attachments WHERE attachment_id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return apperr.NotFound("attachment", id)
	}
	return nil
}

func (s *SQLiteStore) AttachmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "attachments", "attachment_id", id)
}
