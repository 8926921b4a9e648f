package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long:  "Apply any pending schema migrations to the configured database.\nCommands that open the database migrate automatically; this runs the\nsame step explicitly.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := getStore(); err != nil {
			return err
		}
		ui.Success("Database up to date: %s", viper.GetString("db_path"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
