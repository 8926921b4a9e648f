package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"issuetracker/internal/models"
	"issuetracker/internal/output"
	"issuetracker/internal/service"
)

const timestampLayout = "2006-01-02 15:04:05"

var (
	issueProject  string
	issueTitle    string
	issueDesc     string
	issueStatus   string
	issuePriority string
	issueReporter string
	issueAssignee string
	issueDue      string
	issueActor    string
	issueSearch   string
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Manage issues",
	Long:  "Track issues across projects, with per-field change history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueListRun()
	},
}

var issueAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new issue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueAddRun()
	},
}

var issueListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueListRun()
	},
}

var issueShowCmd = &cobra.Command{
	Use:   "show <issue-id>",
	Short: "Show issue details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueShowRun(args[0])
	},
}

var issueUpdateCmd = &cobra.Command{
	Use:   "update <issue-id>",
	Short: "Update an issue",
	Long:  "Update an issue. Every changed field is recorded in the issue history,\nattributed to the user given with --actor.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueUpdateRun(args[0])
	},
}

var issueDeleteCmd = &cobra.Command{
	Use:     "delete <issue-id>",
	Aliases: []string{"rm"},
	Short:   "Delete an issue",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueDeleteRun(args[0])
	},
}

var issueHistoryCmd = &cobra.Command{
	Use:   "history <issue-id>",
	Short: "Show the change history of an issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueHistoryRun(args[0])
	},
}

func init() {
	issueAddCmd.Flags().StringVar(&issueProject, "project", "", "Project ID (required)")
	issueAddCmd.Flags().StringVar(&issueTitle, "title", "", "Issue title (required)")
	issueAddCmd.Flags().StringVar(&issueDesc, "desc", "", "Issue description")
	issueAddCmd.Flags().StringVar(&issueStatus, "status", "TODO", "Status: TODO, IN_PROGRESS, DONE, CANCELLED")
	issueAddCmd.Flags().StringVar(&issuePriority, "priority", "MEDIUM", "Priority: LOW, MEDIUM, HIGH, CRITICAL")
	issueAddCmd.Flags().StringVar(&issueReporter, "reporter", "", "Reporter user ID (required)")
	issueAddCmd.Flags().StringVar(&issueAssignee, "assignee", "", "Assignee user ID")
	issueAddCmd.Flags().StringVar(&issueDue, "due", "", "Due date (yyyy-MM-dd)")
	_ = issueAddCmd.MarkFlagRequired("project")
	_ = issueAddCmd.MarkFlagRequired("title")
	_ = issueAddCmd.MarkFlagRequired("reporter")

	issueListCmd.Flags().StringVar(&issueProject, "project", "", "Filter by project ID")
	issueListCmd.Flags().StringVar(&issueStatus, "status", "", "Filter by status")
	issueListCmd.Flags().StringVar(&issuePriority, "priority", "", "Filter by priority")
	issueListCmd.Flags().StringVar(&issueSearch, "search", "", "Filter by title substring")

	issueUpdateCmd.Flags().StringVar(&issueActor, "actor", "", "User ID the change is attributed to (required)")
	issueUpdateCmd.Flags().StringVar(&issueTitle, "title", "", "New title")
	issueUpdateCmd.Flags().StringVar(&issueDesc, "desc", "", "New description")
	issueUpdateCmd.Flags().StringVar(&issueStatus, "status", "", "New status")
	issueUpdateCmd.Flags().StringVar(&issuePriority, "priority", "", "New priority")
	issueUpdateCmd.Flags().StringVar(&issueAssignee, "assignee", "", "New assignee user ID (\"none\" clears it)")
	issueUpdateCmd.Flags().StringVar(&issueDue, "due", "", "New due date (yyyy-MM-dd, \"none\" clears it)")
	_ = issueUpdateCmd.MarkFlagRequired("actor")

	issueCmd.AddCommand(issueAddCmd)
	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueShowCmd)
	issueCmd.AddCommand(issueUpdateCmd)
	issueCmd.AddCommand(issueDeleteCmd)
	issueCmd.AddCommand(issueHistoryCmd)
	rootCmd.AddCommand(issueCmd)
}

func issueAddRun() error {
	s, err := getService()
	if err != nil {
		return err
	}

	projectID, err := parseID(issueProject)
	if err != nil {
		return err
	}
	reporterID, err := parseID(issueReporter)
	if err != nil {
		return err
	}

	in := &models.IssueInput{
		ProjectID:   &projectID,
		Title:       issueTitle,
		Description: issueDesc,
		Status:      issueStatus,
		Priority:    issuePriority,
		ReporterID:  &reporterID,
		DueDate:     issueDue,
	}
	if in.Status == "" {
		in.Status = "TODO"
	}
	if in.Priority == "" {
		in.Priority = "MEDIUM"
	}
	if issueAssignee != "" {
		assigneeID, err := parseID(issueAssignee)
		if err != nil {
			return err
		}
		in.AssigneeID = &assigneeID
	}

	issue, err := s.CreateIssue(context.Background(), in)
	if err != nil {
		return fmt.Errorf("create issue: %w", err)
	}

	ui.Success("Created issue %s: %s", output.Cyan(shortID(issue.ID)), issue.Title)
	return nil
}

func issueListRun() error {
	s, err := getService()
	if err != nil {
		return err
	}
	ctx := context.Background()

	issues, err := listIssuesForFlags(ctx, s)
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		ui.Info("No issues found.")
		return nil
	}

	// Build a project name cache for display
	projectNames := make(map[uuid.UUID]string)

	table := ui.Table([]string{"ID", "Project", "Title", "Status", "Priority", "Due"})
	for _, issue := range issues {
		projName := projectNames[issue.ProjectID]
		if projName == "" {
			if p, err := s.GetProject(ctx, issue.ProjectID); err == nil {
				projName = p.Name
				projectNames[issue.ProjectID] = projName
			}
		}

		due := ""
		if issue.DueDate != nil {
			due = issue.DueDate.Format(models.DueDateLayout)
		}

		_ = table.Append([]string{
			shortID(issue.ID),
			projName,
			issue.Title,
			output.StatusColor(issue.Status.String()),
			output.PriorityColor(issue.Priority.String()),
			due,
		})
	}
	_ = table.Render()
	return nil
}

// listIssuesForFlags picks the listing call matching the filter flags.
func listIssuesForFlags(ctx context.Context, s *service.Service) ([]*models.Issue, error) {
	switch {
	case issueProject != "":
		projectID, err := parseID(issueProject)
		if err != nil {
			return nil, err
		}
		return s.ListProjectIssues(ctx, projectID)
	case issueStatus != "":
		status, err := models.IssueStatusFromName(issueStatus)
		if err != nil {
			return nil, err
		}
		return s.ListIssuesByStatus(ctx, status)
	case issuePriority != "":
		priority, err := models.IssuePriorityFromName(issuePriority)
		if err != nil {
			return nil, err
		}
		return s.ListIssuesByPriority(ctx, priority)
	case issueSearch != "":
		return s.SearchIssuesByTitle(ctx, issueSearch)
	default:
		return s.ListIssues(ctx)
	}
}

func issueShowRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}
	ctx := context.Background()

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	issue, err := s.GetIssue(ctx, id)
	if err != nil {
		return err
	}

	projName := ""
	if p, err := s.GetProject(ctx, issue.ProjectID); err == nil {
		projName = p.Name
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(shortID(issue.ID)), issue.Title)
	fmt.Fprintf(ui.Out, "  Project:    %s\n", projName)
	fmt.Fprintf(ui.Out, "  Status:     %s\n", output.StatusColor(issue.Status.String()))
	fmt.Fprintf(ui.Out, "  Priority:   %s\n", output.PriorityColor(issue.Priority.String()))
	if issue.Description != "" {
		fmt.Fprintf(ui.Out, "  Desc:       %s\n", issue.Description)
	}
	fmt.Fprintf(ui.Out, "  Reporter:   %s\n", shortID(issue.ReporterID))
	if issue.AssigneeID != nil {
		fmt.Fprintf(ui.Out, "  Assignee:   %s\n", shortID(*issue.AssigneeID))
	}
	if issue.DueDate != nil {
		fmt.Fprintf(ui.Out, "  Due:        %s\n", issue.DueDate.Format(models.DueDateLayout))
	}
	if labels, err := s.ListIssueLabels(ctx, issue.ID); err == nil && len(labels) > 0 {
		names := make([]string, len(labels))
		for i, l := range labels {
			names[i] = l.Name
		}
		fmt.Fprintf(ui.Out, "  Labels:     %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(ui.Out, "  Created:    %s\n", issue.CreatedAt.Format(timestampLayout))
	fmt.Fprintf(ui.Out, "  Updated:    %s\n", issue.UpdatedAt.Format(timestampLayout))
	fmt.Fprintf(ui.Out, "  Full ID:    %s\n", issue.ID)
	return nil
}

func issueUpdateRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}
	ctx := context.Background()

	id, err := parseID(arg)
	if err != nil {
		return err
	}
	actor, err := parseID(issueActor)
	if err != nil {
		return err
	}

	existing, err := s.GetIssue(ctx, id)
	if err != nil {
		return err
	}

	in := issueInputFromExisting(existing)
	if issueTitle != "" {
		in.Title = issueTitle
	}
	if issueDesc != "" {
		in.Description = issueDesc
	}
	if issueStatus != "" {
		in.Status = issueStatus
	}
	if issuePriority != "" {
		in.Priority = issuePriority
	}
	switch issueAssignee {
	case "":
	case "none":
		in.AssigneeID = nil
	default:
		assigneeID, err := parseID(issueAssignee)
		if err != nil {
			return err
		}
		in.AssigneeID = &assigneeID
	}
	switch issueDue {
	case "":
	case "none":
		in.DueDate = ""
	default:
		in.DueDate = issueDue
	}

	issue, err := s.UpdateIssue(ctx, in, actor)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}

	ui.Success("Updated issue %s", output.Cyan(shortID(issue.ID)))
	return nil
}

// issueInputFromExisting seeds a full update input from the stored
// issue, so flags only have to carry the fields that change.
func issueInputFromExisting(issue *models.Issue) *models.IssueInput {
	in := &models.IssueInput{
		ID:          &issue.ID,
		ProjectID:   &issue.ProjectID,
		Title:       issue.Title,
		Description: issue.Description,
		Status:      issue.Status.String(),
		Priority:    issue.Priority.String(),
		ReporterID:  &issue.ReporterID,
		AssigneeID:  issue.AssigneeID,
	}
	if issue.DueDate != nil {
		in.DueDate = issue.DueDate.Format(models.DueDateLayout)
	}
	return in
}

func issueDeleteRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	if err := s.DeleteIssue(context.Background(), id); err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}

	ui.Success("Deleted issue %s", output.Cyan(shortID(id)))
	return nil
}

func issueHistoryRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	history, err := s.GetIssueHistory(context.Background(), id)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		ui.Info("No recorded changes.")
		return nil
	}

	table := ui.Table([]string{"When", "Field", "Old", "New", "By"})
	for _, h := range history {
		_ = table.Append([]string{
			h.ChangedAt.Format(timestampLayout),
			h.Field,
			historyValue(h.OldValue),
			historyValue(h.NewValue),
			shortID(h.ChangedBy),
		})
	}
	_ = table.Render()
	return nil
}

func historyValue(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

// parseID parses a command-line entity id.
func parseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}

// shortID returns a truncated UUID for display (first 8 chars).
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
