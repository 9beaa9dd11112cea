package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/database/postgres"
)

func newMigrateCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the snapshot database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := postgres.RunMigrations(postgres.BuildDSN(cfg.Database), cfg.Database.MigrationPath); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "migrations applied")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := postgres.RollbackMigration(postgres.BuildDSN(cfg.Database), cfg.Database.MigrationPath, steps); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}
