package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"issuetracker/internal/apperr"
	"issuetracker/internal/models"
	"issuetracker/internal/service"
)

// Server provides the REST API handlers.
type Server struct {
	svc *service.Service
	log zerolog.Logger
}

// NewServer creates a new API server.
func NewServer(svc *service.Service, log zerolog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

// Router returns an http.Handler for the API routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/users", s.listUsers)
	mux.HandleFunc("POST /api/v1/users", s.createUser)
	mux.HandleFunc("GET /api/v1/users/{id}", s.getUser)
	mux.HandleFunc("PUT /api/v1/users/{id}", s.updateUser)
	mux.HandleFunc("DELETE /api/v1/users/{id}", s.deleteUser)
	mux.HandleFunc("GET /api/v1/users/{id}/teams", s.listUserTeams)
	mux.HandleFunc("GET /api/v1/users/{id}/issues", s.listUserIssues)
	mux.HandleFunc("POST /api/v1/login", s.login)

	mux.HandleFunc("GET /api/v1/projects", s.listProjects)
	mux.HandleFunc("POST /api/v1/projects", s.createProject)
	mux.HandleFunc("GET /api/v1/projects/{id}", s.getProject)
	mux.HandleFunc("PUT /api/v1/projects/{id}", s.updateProject)
	mux.HandleFunc("DELETE /api/v1/projects/{id}", s.deleteProject)
	mux.HandleFunc("GET /api/v1/projects/{id}/issues", s.listProjectIssues)

	mux.HandleFunc("GET /api/v1/issues", s.listIssues)
	mux.HandleFunc("POST /api/v1/issues", s.createIssue)
	mux.HandleFunc("GET /api/v1/issues/{id}", s.getIssue)
	mux.HandleFunc("PUT /api/v1/issues/{id}", s.updateIssue)
	mux.HandleFunc("DELETE /api/v1/issues/{id}", s.deleteIssue)
	mux.HandleFunc("GET /api/v1/issues/{id}/history", s.issueHistory)
	mux.HandleFunc("GET /api/v1/issues/{id}/comments", s.listIssueComments)
	mux.HandleFunc("POST /api/v1/issues/{id}/comments", s.createComment)
	mux.HandleFunc("GET /api/v1/issues/{id}/labels", s.listIssueLabels)
	mux.HandleFunc("POST /api/v1/issues/{id}/labels", s.assignLabel)
	mux.HandleFunc("DELETE /api/v1/issues/{id}/labels/{labelID}", s.unassignLabel)
	mux.HandleFunc("GET /api/v1/issues/{id}/attachments", s.listIssueAttachments)
	mux.HandleFunc("POST /api/v1/issues/{id}/attachments", s.createAttachment)

	mux.HandleFunc("GET /api/v1/teams", s.listTeams)
	mux.HandleFunc("POST /api/v1/teams", s.createTeam)
	mux.HandleFunc("GET /api/v1/teams/{id}", s.getTeam)
	mux.HandleFunc("PUT /api/v1/teams/{id}", s.updateTeam)
	mux.HandleFunc("DELETE /api/v1/teams/{id}", s.deleteTeam)
	mux.HandleFunc("GET /api/v1/teams/{id}/members", s.listTeamMembers)
	mux.HandleFunc("POST /api/v1/teams/{id}/members", s.addTeamMember)
	mux.HandleFunc("DELETE /api/v1/teams/{id}/members/{userID}", s.removeTeamMember)

	mux.HandleFunc("GET /api/v1/labels", s.listLabels)
	mux.HandleFunc("POST /api/v1/labels", s.createLabel)
	mux.HandleFunc("GET /api/v1/labels/{id}", s.getLabel)
	mux.HandleFunc("PUT /api/v1/labels/{id}", s.updateLabel)
	mux.HandleFunc("DELETE /api/v1/labels/{id}", s.deleteLabel)

	mux.HandleFunc("GET /api/v1/comments/{id}", s.getComment)
	mux.HandleFunc("PUT /api/v1/comments/{id}", s.updateComment)
	mux.HandleFunc("DELETE /api/v1/comments/{id}", s.deleteComment)

	mux.HandleFunc("GET /api/v1/attachments/{id}", s.getAttachment)
	mux.HandleFunc("DELETE /api/v1/attachments/{id}", s.deleteAttachment)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the typed service errors onto HTTP statuses.
// Validation failures carry the full message list so clients can show
// every problem at once.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verr.Messages})
		return
	}
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		writeError(w, http.StatusNotFound, nf.Error())
		return
	}
	var conflict *apperr.ConflictError
	if errors.As(err, &conflict) {
		writeError(w, http.StatusConflict, conflict.Error())
		return
	}
	var invalid *apperr.InvalidStateError
	if errors.As(err, &invalid) {
		writeError(w, http.StatusConflict, invalid.Error())
		return
	}
	s.log.Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

// pathID parses the {id} path segment as a UUID. On failure it writes a
// 400 response and reports ok=false.
func pathID(w http.ResponseWriter, r *http.Request, segment string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(segment))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+segment)
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// --- Users ---

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.ListUsers(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userViews(users))
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	if !decodeBody(w, r, &in) {
		return
	}
	user, err := s.svc.CreateUser(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userView(user))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	user, err := s.svc.GetUser(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userView(user))
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.UserInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = &id
	user, err := s.svc.UpdateUser(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userView(user))
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteUser(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listUserTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	teams, err := s.svc.ListUserTeams(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) listUserIssues(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var issues []*models.Issue
	var err error
	if r.URL.Query().Get("role") == "assignee" {
		issues, err = s.svc.ListIssuesByAssignee(r.Context(), id)
	} else {
		issues, err = s.svc.ListIssuesByReporter(r.Context(), id)
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issueViews(issues))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := s.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		var invalid *apperr.InvalidStateError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userView(user))
}

// --- Projects ---

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.ListProjects(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectInput
	if !decodeBody(w, r, &in) {
		return
	}
	project, err := s.svc.CreateProject(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	project, err := s.svc.GetProject(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.ProjectInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = &id
	project, err := s.svc.UpdateProject(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteProject(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listProjectIssues(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	issues, err := s.svc.ListProjectIssues(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issueViews(issues))
}

// --- Issues ---

func (s *Server) listIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var issues []*models.Issue
	var err error
	switch {
	case q.Get("status") != "":
		var status models.IssueStatus
		status, err = models.IssueStatusFromName(q.Get("status"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		issues, err = s.svc.ListIssuesByStatus(r.Context(), status)
	case q.Get("status_id") != "":
		id, convErr := strconv.Atoi(q.Get("status_id"))
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "invalid status_id")
			return
		}
		issues, err = s.svc.ListIssuesByStatus(r.Context(), models.IssueStatus(id))
	case q.Get("priority") != "":
		var priority models.IssuePriority
		priority, err = models.IssuePriorityFromName(q.Get("priority"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid priority")
			return
		}
		issues, err = s.svc.ListIssuesByPriority(r.Context(), priority)
	case q.Get("q") != "":
		issues, err = s.svc.SearchIssuesByTitle(r.Context(), q.Get("q"))
	default:
		issues, err = s.svc.ListIssues(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issueViews(issues))
}

func (s *Server) createIssue(w http.ResponseWriter, r *http.Request) {
	var in models.IssueInput
	if !decodeBody(w, r, &in) {
		return
	}
	issue, err := s.svc.CreateIssue(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, issueView(issue))
}

func (s *Server) getIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	issue, err := s.svc.GetIssue(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issueView(issue))
}

// updateIssue applies a full update. The acting user comes from the
// X-Actor-ID header and is recorded on every history row.
func (s *Server) updateIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	actor, err := uuid.Parse(r.Header.Get("X-Actor-ID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid X-Actor-ID header")
		return
	}
	var in models.IssueInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = &id
	issue, err := s.svc.UpdateIssue(r.Context(), &in, actor)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issueView(issue))
}

func (s *Server) deleteIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteIssue(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) issueHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	history, err := s.svc.GetIssueHistory(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if history == nil {
		history = []*models.IssueHistory{}
	}
	writeJSON(w, http.StatusOK, history)
}

// --- Comments ---

func (s *Server) listIssueComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	comments, err := s.svc.ListIssueComments(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.CommentInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.IssueID = &id
	comment, err := s.svc.CreateComment(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) getComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	comment, err := s.svc.GetComment(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.CommentInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = &id
	comment, err := s.svc.UpdateComment(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteComment(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Labels ---

func (s *Server) listLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := s.svc.ListLabels(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (s *Server) createLabel(w http.ResponseWriter, r *http.Request) {
	var in models.LabelInput
	if !decodeBody(w, r, &in) {
		return
	}
	label, err := s.svc.CreateLabel(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, label)
}

func (s *Server) getLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	label, err := s.svc.GetLabel(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, label)
}

func (s *Server) updateLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.LabelInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = &id
	label, err := s.svc.UpdateLabel(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, label)
}

func (s *Server) deleteLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteLabel(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listIssueLabels(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	labels, err := s.svc.ListIssueLabels(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if labels == nil {
		labels = []*models.IssueLabel{}
	}
	writeJSON(w, http.StatusOK, labels)
}

func (s *Server) assignLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		LabelID uuid.UUID `json:"label_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.LabelID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "label_id is required")
		return
	}
	if err := s.svc.AssignLabel(r.Context(), id, req.LabelID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) unassignLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	labelID, ok := pathID(w, r, "labelID")
	if !ok {
		return
	}
	if err := s.svc.UnassignLabel(r.Context(), id, labelID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Attachments ---

func (s *Server) listIssueAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	attachments, err := s.svc.ListIssueAttachments(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if attachments == nil {
		attachments = []*models.Attachment{}
	}
	writeJSON(w, http.StatusOK, attachments)
}

func (s *Server) createAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.AttachmentInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.IssueID = &id
	attachment, err := s.svc.CreateAttachment(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attachment)
}

func (s *Server) getAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	attachment, err := s.svc.GetAttachment(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attachment)
}

func (s *Server) deleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteAttachment(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Teams ---

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.svc.ListTeams(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request) {
	var in models.TeamInput
	if !decodeBody(w, r, &in) {
		return
	}
	team, err := s.svc.CreateTeam(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	team, err := s.svc.GetTeam(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) updateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.TeamInput
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = &id
	team, err := s.svc.UpdateTeam(r.Context(), &in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) deleteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteTeam(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTeamMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	members, err := s.svc.ListTeamMembers(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userViews(members))
}

func (s *Server) addTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if err := s.svc.AddTeamMember(r.Context(), id, req.UserID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	if err := s.svc.RemoveTeamMember(r.Context(), id, userID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
