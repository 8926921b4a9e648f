package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"issuetracker/internal/models"
	"issuetracker/internal/output"
)

var (
	userName     string
	userEmail    string
	userPassword string
	userRole     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage tracker users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return userListRun()
	},
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return userAddRun()
	},
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return userListRun()
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show user details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userShowRun(args[0])
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userUpdateRun(args[0])
	},
}

var userDeleteCmd = &cobra.Command{
	Use:     "delete <user-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a user",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return userDeleteRun(args[0])
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "name", "", "User name (required)")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "Email address (required)")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "Password (required)")
	userAddCmd.Flags().StringVar(&userRole, "role", "DEVELOPER", "Role: ADMIN, PROJECT_MANAGER, DEVELOPER, TESTER")
	_ = userAddCmd.MarkFlagRequired("name")
	_ = userAddCmd.MarkFlagRequired("email")
	_ = userAddCmd.MarkFlagRequired("password")

	userUpdateCmd.Flags().StringVar(&userName, "name", "", "New name")
	userUpdateCmd.Flags().StringVar(&userEmail, "email", "", "New email")
	userUpdateCmd.Flags().StringVar(&userPassword, "password", "", "New password (empty keeps the current one)")
	userUpdateCmd.Flags().StringVar(&userRole, "role", "", "New role")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}

func userAddRun() error {
	s, err := getService()
	if err != nil {
		return err
	}

	role := userRole
	if role == "" {
		role = "DEVELOPER"
	}
	user, err := s.CreateUser(context.Background(), &models.UserInput{
		Name:     userName,
		Email:    userEmail,
		Password: userPassword,
		Role:     role,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	ui.Success("Created user %s: %s <%s>", output.Cyan(shortID(user.ID)), user.Name, user.Email)
	return nil
}

func userListRun() error {
	s, err := getService()
	if err != nil {
		return err
	}

	users, err := s.ListUsers(context.Background())
	if err != nil {
		return err
	}

	if len(users) == 0 {
		ui.Info("No users found.")
		return nil
	}

	table := ui.Table([]string{"ID", "Name", "Email", "Role"})
	for _, u := range users {
		_ = table.Append([]string{
			shortID(u.ID),
			u.Name,
			u.Email,
			u.Role.String(),
		})
	}
	_ = table.Render()
	return nil
}

func userShowRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	u, err := s.GetUser(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(shortID(u.ID)), u.Name)
	fmt.Fprintf(ui.Out, "  Email:      %s\n", u.Email)
	fmt.Fprintf(ui.Out, "  Role:       %s\n", u.Role)
	fmt.Fprintf(ui.Out, "  Created:    %s\n", u.CreatedAt.Format(timestampLayout))
	fmt.Fprintf(ui.Out, "  Full ID:    %s\n", u.ID)
	return nil
}

func userUpdateRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}
	ctx := context.Background()

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	existing, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	in := &models.UserInput{
		ID:       &id,
		Name:     existing.Name,
		Email:    existing.Email,
		Password: userPassword,
		Role:     existing.Role.String(),
	}
	if userName != "" {
		in.Name = userName
	}
	if userEmail != "" {
		in.Email = userEmail
	}
	if userRole != "" {
		in.Role = userRole
	}

	u, err := s.UpdateUser(ctx, in)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	ui.Success("Updated user %s", output.Cyan(shortID(u.ID)))
	return nil
}

func userDeleteRun(arg string) error {
	s, err := getService()
	if err != nil {
		return err
	}

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	if err := s.DeleteUser(context.Background(), id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	ui.Success("Deleted user %s", output.Cyan(shortID(id)))
	return nil
}
