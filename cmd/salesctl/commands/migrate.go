package commands

import (
	"lu-estilo/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Run the migrations embedded in the binary.

Subcommands:
  up      - Apply pending migrations
  down    - Roll back the latest migration
  status  - Show migration status`,
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeQuietly(db, log)

			return database.RunMigrations(db.DB(), log)
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeQuietly(db, log)

			return database.RollbackMigration(db.DB(), log)
		},
	}

	migrateStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer closeQuietly(db, newLogger())

			return database.GetMigrationStatus(db.DB())
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	return migrateCmd
}
