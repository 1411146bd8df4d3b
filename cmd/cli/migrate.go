package main

import (
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cmd.Println("Running migrations...")

	db, _, err := openStorage(cmd.Context(), loadConfig())
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
