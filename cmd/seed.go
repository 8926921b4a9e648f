package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"issuetracker/internal/models"
)

// seedFile is the YAML fixture format. Entities reference each other
// by name or email rather than by id, so fixtures stay readable.
type seedFile struct {
	Users []struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
	Projects []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Owner       string `yaml:"owner"` // user email
	} `yaml:"projects"`
	Teams []struct {
		Name    string   `yaml:"name"`
		Owner   string   `yaml:"owner"`
		Members []string `yaml:"members"`
	} `yaml:"teams"`
	Labels []string `yaml:"labels"`
	Issues []struct {
		Project     string   `yaml:"project"`
		Title       string   `yaml:"title"`
		Description string   `yaml:"description"`
		Status      string   `yaml:"status"`
		Priority    string   `yaml:"priority"`
		Reporter    string   `yaml:"reporter"`
		Assignee    string   `yaml:"assignee"`
		DueDate     string   `yaml:"due_date"`
		Labels      []string `yaml:"labels"`
	} `yaml:"issues"`
}

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Load fixture data from a YAML file",
	Long: `Load users, projects, teams, labels, and issues from a YAML fixture.
Entities reference each other by user email, project name, and label
name. Loading stops at the first error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return seedRun(args[0])
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seedRun(path string) error {
	s, err := getService()
	if err != nil {
		return err
	}
	ctx := context.Background()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}

	var fixture seedFile
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	userIDs := make(map[string]uuid.UUID)
	for _, u := range fixture.Users {
		created, err := s.CreateUser(ctx, &models.UserInput{
			Name:     u.Name,
			Email:    u.Email,
			Password: u.Password,
			Role:     u.Role,
		})
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.Email, err)
		}
		userIDs[u.Email] = created.ID
	}
	ui.VerboseLog("Seeded %d users", len(fixture.Users))

	projectIDs := make(map[string]uuid.UUID)
	for _, p := range fixture.Projects {
		ownerID, err := seedUserRef(userIDs, p.Owner)
		if err != nil {
			return fmt.Errorf("seed project %q: %w", p.Name, err)
		}
		created, err := s.CreateProject(ctx, &models.ProjectInput{
			Name:        p.Name,
			Description: p.Description,
			OwnerID:     &ownerID,
		})
		if err != nil {
			return fmt.Errorf("seed project %q: %w", p.Name, err)
		}
		projectIDs[p.Name] = created.ID
	}
	ui.VerboseLog("Seeded %d projects", len(fixture.Projects))

	for _, t := range fixture.Teams {
		ownerID, err := seedUserRef(userIDs, t.Owner)
		if err != nil {
			return fmt.Errorf("seed team %q: %w", t.Name, err)
		}
		created, err := s.CreateTeam(ctx, &models.TeamInput{
			Name:    t.Name,
			OwnerID: &ownerID,
		})
		if err != nil {
			return fmt.Errorf("seed team %q: %w", t.Name, err)
		}
		for _, member := range t.Members {
			memberID, err := seedUserRef(userIDs, member)
			if err != nil {
				return fmt.Errorf("seed team %q: %w", t.Name, err)
			}
			if err := s.AddTeamMember(ctx, created.ID, memberID); err != nil {
				return fmt.Errorf("seed team %q member %q: %w", t.Name, member, err)
			}
		}
	}
	ui.VerboseLog("Seeded %d teams", len(fixture.Teams))

	labelIDs := make(map[string]uuid.UUID)
	for _, name := range fixture.Labels {
		created, err := s.CreateLabel(ctx, &models.LabelInput{Name: name})
		if err != nil {
			return fmt.Errorf("seed label %q: %w", name, err)
		}
		labelIDs[name] = created.ID
	}
	ui.VerboseLog("Seeded %d labels", len(fixture.Labels))

	for _, i := range fixture.Issues {
		projectID, ok := projectIDs[i.Project]
		if !ok {
			return fmt.Errorf("seed issue %q: unknown project %q", i.Title, i.Project)
		}
		reporterID, err := seedUserRef(userIDs, i.Reporter)
		if err != nil {
			return fmt.Errorf("seed issue %q: %w", i.Title, err)
		}

		in := &models.IssueInput{
			ProjectID:   &projectID,
			Title:       i.Title,
			Description: i.Description,
			Status:      i.Status,
			Priority:    i.Priority,
			ReporterID:  &reporterID,
			DueDate:     i.DueDate,
		}
		if i.Status == "" {
			in.Status = "TODO"
		}
		if i.Priority == "" {
			in.Priority = "MEDIUM"
		}
		if i.Assignee != "" {
			assigneeID, err := seedUserRef(userIDs, i.Assignee)
			if err != nil {
				return fmt.Errorf("seed issue %q: %w", i.Title, err)
			}
			in.AssigneeID = &assigneeID
		}

		created, err := s.CreateIssue(ctx, in)
		if err != nil {
			return fmt.Errorf("seed issue %q: %w", i.Title, err)
		}
		for _, name := range i.Labels {
			labelID, ok := labelIDs[name]
			if !ok {
				return fmt.Errorf("seed issue %q: unknown label %q", i.Title, name)
			}
			if err := s.AssignLabel(ctx, created.ID, labelID); err != nil {
				return fmt.Errorf("seed issue %q label %q: %w", i.Title, name, err)
			}
		}
	}
	ui.VerboseLog("Seeded %d issues", len(fixture.Issues))

	ui.Success("Seeded %d users, %d projects, %d teams, %d labels, %d issues",
		len(fixture.Users), len(fixture.Projects), len(fixture.Teams),
		len(fixture.Labels), len(fixture.Issues))
	return nil
}

func seedUserRef(userIDs map[string]uuid.UUID, email string) (uuid.UUID, error) {
	id, ok := userIDs[email]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown user %q", email)
	}
	return id, nil
}
