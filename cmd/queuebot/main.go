package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/queuebot/internal/cli"
	"github.com/example/queuebot/internal/config"
	"github.com/example/queuebot/internal/version"
	"github.com/example/queuebot/internal/wire"
)

func main() {
	var configDir string

	rootCmd := &cobra.Command{
		Use:     "queuebot",
		Short:   "queuebot - a first-come, first-served queue served over chat",
		Version: version.String(),
		Long: `queuebot keeps a single FIFO queue that participants join and leave
from a chat bot. Administrators can clear the queue, remove participants,
and export everything to a spreadsheet.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.SetConfigDir(configDir)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", config.DefaultDir(), "Directory holding config.json and .env")

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.QueueCmd())
	rootCmd.AddCommand(cli.ExportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
