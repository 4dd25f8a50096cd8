package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/queuebot/internal/config"
	"github.com/example/queuebot/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var token string
	var admins []int64
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config.json",
		Long: `Write config.json to the config directory (~/.queuebot by default).

Examples:
  queuebot init --token 123:ABC --admin 111111111 --admin 222222222`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := wire.ConfigDir()
			path := filepath.Join(dir, config.FileName)

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.Default()
			cfg.BotToken = token
			cfg.AdminIDs = admins
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := config.SaveConfig(dir, cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Config written to %s\n", path)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  queuebot migrate")
			fmt.Fprintln(out, "  queuebot serve")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bot API token")
	cmd.Flags().Int64SliceVar(&admins, "admin", nil, "Administrator participant ID (repeatable)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config.json")

	return cmd
}
