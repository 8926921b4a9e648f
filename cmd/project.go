package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"issuetracker/internal/models"
	"issuetracker/internal/output"
)

var (
	projectName  string
	projectDesc  string
	projectOwner string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectListRun()
	},
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectAddRun()
	},
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectListRun()
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show project details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectShowRun(args[0])
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <project-id>",
	Short: "Update a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectUpdateRun(args[0])
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete <project-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a project and its issues",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectDeleteRun(args[0])
	},
}

func init() {
	projectAddCmd.Flags().StringVar(&projectName, "name", "", "Project name (required)")
	projectAddCmd.Flags().StringVar(&projectDesc, "desc", "", "Project description")
	projectAddCmd.Flags().StringVar(&projectOwner, "owner", "", "Owner user ID (required)")
	_ = projectAddCmd.MarkFlagRequired("name")
	_ = projectAddCmd.MarkFlagRequired("owner")

	projectUpdateCmd.Flags().StringVar(&projectName, "name", "", "New name")
	projectUpdateCmd.Flags().StringVar(&projectDesc, "desc", "", "New description")
	projectUpdateCmd.Flags().StringVar(&projectOwner, "owner", "", "New owner user ID")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}

func projectAddRun() error {
	s, err := getService()
	if err != nil {
		return err
	}

	ownerID, err := parseID(projectOwner)
	if err != nil {
		return err
	}

	p, err := s.CreateProject(context.Background(), &models.ProjectInput{
		Name:        projectName,
		Description: projectDesc,
		OwnerID:     &ownerID,
	})
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	ui.Success("Created project %s: %s", output.Cyan(shortID(p.ID)), p.Name)
	return nil
}

func projectListRun() error {
	s, err := getService()
	if err != nil {
		return err
	}

	projects, err := s.ListProjects(context.Background())
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		ui.Info("No projects found.")
		return nil
	}

	table := ui.Table([]string{"ID", "Name", "Description", "Owner"})
	for _, p := range projects {
		_ = table.Append([]string{
			shortID(p.ID),
			p.Name,
			p.Description,
			shortID(p.OwnerID),
		})
	}
	_ = table.Render()
	return nil
}

func projectShowRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}
	ctx := context.Background()

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	p, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(shortID(p.ID)), p.Name)
	if p.Description != "" {
		fmt.Fprintf(ui.Out, "  Desc:       %s\n", p.Description)
	}
	fmt.Fprintf(ui.Out, "  Owner:      %s\n", shortID(p.OwnerID))
	fmt.Fprintf(ui.Out, "  Created:    %s\n", p.CreatedAt.Format(timestampLayout))
	fmt.Fprintf(ui.Out, "  Updated:    %s\n", p.UpdatedAt.Format(timestampLayout))
	fmt.Fprintf(ui.Out, "  Full ID:    %s\n", p.ID)

	issues, err := s.ListProjectIssues(ctx, p.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(ui.Out, "  Issues:     %d\n", len(issues))
	return nil
}

func projectUpdateRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}
	ctx := context.Background()

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	existing, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}

	in := &models.ProjectInput{
		ID:          &id,
		Name:        existing.Name,
		Description: existing.Description,
		OwnerID:     &existing.OwnerID,
	}
	if projectName != "" {
		in.Name = projectName
	}
	if projectDesc != "" {
		in.Description = projectDesc
	}
	if projectOwner != "" {
		ownerID, err := parseID(projectOwner)
		if err != nil {
			return err
		}
		in.OwnerID = &ownerID
	}

	p, err := s.UpdateProject(ctx, in)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	ui.Success("Updated project %s", output.Cyan(shortID(p.ID)))
	return nil
}

func projectDeleteRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	if err := s.DeleteProject(context.Background(), id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	ui.Success("Deleted project %s", output.Cyan(shortID(id)))
	return nil
}
