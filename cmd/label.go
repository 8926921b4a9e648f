package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"issuetracker/internal/models"
	"issuetracker/internal/output"
)

var labelName string

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage issue labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		return labelListRun()
	},
}

var labelAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return labelAddRun(args[0])
	},
}

var labelListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		return labelListRun()
	},
}

var labelRenameCmd = &cobra.Command{
	Use:   "rename <label-id>",
	Short: "Rename a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return labelRenameRun(args[0])
	},
}

var labelDeleteCmd = &cobra.Command{
	Use:     "delete <label-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a label",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return labelDeleteRun(args[0])
	},
}

var labelAssignCmd = &cobra.Command{
	Use:   "assign <issue-id> <label-id>",
	Short: "Attach a label to an issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return labelAssignRun(args[0], args[1])
	},
}

var labelUnassignCmd = &cobra.Command{
	Use:   "unassign <issue-id> <label-id>",
	Short: "Detach a label from an issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return labelUnassignRun(args[0], args[1])
	},
}

func init() {
	labelRenameCmd.Flags().StringVar(&labelName, "name", "", "New name (required)")
	_ = labelRenameCmd.MarkFlagRequired("name")

	labelCmd.AddCommand(labelAddCmd)
	labelCmd.AddCommand(labelListCmd)
	labelCmd.AddCommand(labelRenameCmd)
	labelCmd.AddCommand(labelDeleteCmd)
	labelCmd.AddCommand(labelAssignCmd)
	labelCmd.AddCommand(labelUnassignCmd)
	rootCmd.AddCommand(labelCmd)
}

func labelAddRun(name string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	l, err := s.CreateLabel(context.Background(), &models.LabelInput{Name: name})
	if err != nil {
		return fmt.Errorf("create label: %w", err)
	}

	ui.Success("Created label %s: %s", output.Cyan(shortID(l.ID)), l.Name)
	return nil
}

func labelListRun() error {
	s, err := getService()
	if err != nil {
		return err
	}

	labels, err := s.ListLabels(context.Background())
	if err != nil {
		return err
	}

	if len(labels) == 0 {
		ui.Info("No labels found.")
		return nil
	}

	table := ui.Table([]string{"ID", "Name"})
	for _, l := range labels {
		_ = table.Append([]string{
			shortID(l.ID),
			l.Name,
		})
	}
	_ = table.Render()
	return nil
}

func labelRenameRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	l, err := s.UpdateLabel(context.Background(), &models.LabelInput{
		ID:   &id,
		Name: labelName,
	})
	if err != nil {
		return fmt.Errorf("rename label: %w", err)
	}

	ui.Success("Renamed label %s to %s", output.Cyan(shortID(l.ID)), l.Name)
	return nil
}

func labelDeleteRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	if err := s.DeleteLabel(context.Background(), id); err != nil {
		return fmt.Errorf("delete label: %w", err)
	}

	ui.Success("Deleted label %s", output.Cyan(shortID(id)))
	return nil
}

func labelAssignRun(issueArg, labelArg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	issueID, err := parseID(issueArg)
	if err != nil {
		return err
	}
	labelID, err := parseID(labelArg)
	if err != nil {
		return err
	}

	if err := s.AssignLabel(context.Background(), issueID, labelID); err != nil {
		return fmt.Errorf("assign label: %w", err)
	}

	ui.Success("Assigned label %s to issue %s", output.Cyan(shortID(labelID)), output.Cyan(shortID(issueID)))
	return nil
}

func labelUnassignRun(issueArg, labelArg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	issueID, err := parseID(issueArg)
	if err != nil {
		return err
	}
	labelID, err := parseID(labelArg)
	if err != nil {
		return err
	}

	if err := s.UnassignLabel(context.Background(), issueID, labelID); err != nil {
		return fmt.Errorf("unassign label: %w", err)
	}

	ui.Success("Unassigned label %s from issue %s", output.Cyan(shortID(labelID)), output.Cyan(shortID(issueID)))
	return nil
}
