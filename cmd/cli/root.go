package main

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/envmon/internal/server"
	"github.com/dmitrijs2005/envmon/internal/server/config"
	"github.com/dmitrijs2005/envmon/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

// openStorage is a seam for tests.
var openStorage = func(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	return server.OpenStorage(ctx, c)
}

var databaseDSN string

// NewRootCmd creates the root command. Settings come from ENVMON_* variables
// (and .env); --dsn overrides the database DSN.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "envmon-cli",
		Short:        "envmon administration",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&databaseDSN, "dsn", "", "PostgreSQL DSN (overrides ENVMON_DATABASE_DSN)")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewCreateUserCmd())

	return cmd
}

func loadConfig() *config.Config {
	c := config.LoadEnvConfig()
	if databaseDSN != "" {
		c.DatabaseDSN = databaseDSN
	}
	return c
}
