package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"issuetracker/internal/models"
	"issuetracker/internal/output"
)

var (
	teamName  string
	teamOwner string
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage teams and their members",
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamListRun()
	},
}

var teamAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new team",
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamAddRun()
	},
}

var teamListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamListRun()
	},
}

var teamShowCmd = &cobra.Command{
	Use:   "show <team-id>",
	Short: "Show a team and its members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamShowRun(args[0])
	},
}

var teamDeleteCmd = &cobra.Command{
	Use:     "delete <team-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a team",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamDeleteRun(args[0])
	},
}

var teamJoinCmd = &cobra.Command{
	Use:   "join <team-id> <user-id>",
	Short: "Add a user to a team",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamJoinRun(args[0], args[1])
	},
}

var teamLeaveCmd = &cobra.Command{
	Use:   "leave <team-id> <user-id>",
	Short: "Remove a user from a team",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamLeaveRun(args[0], args[1])
	},
}

func init() {
	teamAddCmd.Flags().StringVar(&teamName, "name", "", "Team name (required)")
	teamAddCmd.Flags().StringVar(&teamOwner, "owner", "", "Owner user ID (required)")
	_ = teamAddCmd.MarkFlagRequired("name")
	_ = teamAddCmd.MarkFlagRequired("owner")

	teamCmd.AddCommand(teamAddCmd)
	teamCmd.AddCommand(teamListCmd)
	teamCmd.AddCommand(teamShowCmd)
	teamCmd.AddCommand(teamDeleteCmd)
	teamCmd.AddCommand(teamJoinCmd)
	teamCmd.AddCommand(teamLeaveCmd)
	rootCmd.AddCommand(teamCmd)
}

func teamAddRun() error {
	s, err := getService()
	if err != nil {
		return err
	}

	ownerID, err := parseID(teamOwner)
	if err != nil {
		return err
	}

	t, err := s.CreateTeam(context.Background(), &models.TeamInput{
		Name:    teamName,
		OwnerID: &ownerID,
	})
	if err != nil {
		return fmt.Errorf("create team: %w", err)
	}

	ui.Success("Created team %s: %s", output.Cyan(shortID(t.ID)), t.Name)
	return nil
}

func teamListRun() error {
	s, err := getService()
	if err != nil {
		return err
	}

	teams, err := s.ListTeams(context.Background())
	if err != nil {
		return err
	}

	if len(teams) == 0 {
		ui.Info("No teams found.")
		return nil
	}

	table := ui.Table([]string{"ID", "Name", "Owner"})
	for _, t := range teams {
		_ = table.Append([]string{
			shortID(t.ID),
			t.Name,
			shortID(t.OwnerID),
		})
	}
	_ = table.Render()
	return nil
}

func teamShowRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}
	ctx := context.Background()

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	t, err := s.GetTeam(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(shortID(t.ID)), t.Name)
	fmt.Fprintf(ui.Out, "  Owner:      %s\n", shortID(t.OwnerID))
	fmt.Fprintf(ui.Out, "  Created:    %s\n", t.CreatedAt.Format(timestampLayout))
	fmt.Fprintf(ui.Out, "  Full ID:    %s\n", t.ID)

	members, err := s.ListTeamMembers(ctx, t.ID)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		ui.Info("No members.")
		return nil
	}

	table := ui.Table([]string{"ID", "Name", "Email", "Role"})
	for _, m := range members {
		_ = table.Append([]string{
			shortID(m.ID),
			m.Name,
			m.Email,
			m.Role.String(),
		})
	}
	_ = table.Render()
	return nil
}

func teamDeleteRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	if err := s.DeleteTeam(context.Background(), id); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	ui.Success("Deleted team %s", output.Cyan(shortID(id)))
	return nil
}

func teamJoinRun(teamArg, userArg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	teamID, err := parseID(teamArg)
	if err != nil {
		return err
	}
	userID, err := parseID(userArg)
	if err != nil {
		return err
	}

	if err := s.AddTeamMember(context.Background(), teamID, userID); err != nil {
		return fmt.Errorf("add team member: %w", err)
	}

	ui.Success("Added user %s to team %s", output.Cyan(shortID(userID)), output.Cyan(shortID(teamID)))
	return nil
}

func teamLeaveRun(teamArg, userArg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	teamID, err := parseID(teamArg)
	if err != nil {
		return err
	}
	userID, err := parseID(userArg)
	if err != nil {
		return err
	}

	if err := s.RemoveTeamMember(context.Background(), teamID, userID); err != nil {
		return fmt.Errorf("remove team member: %w", err)
	}

	ui.Success("Removed user %s from team %s", output.Cyan(shortID(userID)), output.Cyan(shortID(teamID)))
	return nil
}
