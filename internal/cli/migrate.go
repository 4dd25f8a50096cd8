package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/queuebot/internal/config"
	"github.com/example/queuebot/internal/db"
	"github.com/example/queuebot/internal/wire"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Long: `Create the database if needed and apply pending schema migrations.

serve applies migrations on startup as well; this command lets operators
upgrade ahead of time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(wire.ConfigDir())
			if err != nil {
				return err
			}

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to migrate %s: %w", cfg.DBPath, err)
			}
			defer database.Close()

			version, err := db.CurrentVersion(database)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Database %s at schema version %d (latest %d)\n", cfg.DBPath, version, db.LatestVersion())
			return nil
		},
	}
}
