package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bher20/quotemanager/internal/logging"
	"github.com/bher20/quotemanager/internal/migrate"
)

// migrateCmd manages the SQL schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or inspect database migrations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd); err != nil {
			return err
		}
		migrate.SetLogger(logging.Logger)
		return nil
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate.Up(cmd.Context(), cfg.DBDriver, cfg.DBDSN)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate.Down(cmd.Context(), cfg.DBDriver, cfg.DBDSN)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate.Status(cmd.Context(), cfg.DBDriver, cfg.DBDSN)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := migrate.Version(cmd.Context(), cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}
