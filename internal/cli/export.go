package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/queuebot/internal/adapters/export"
	"github.com/example/queuebot/internal/core/queue"
	"github.com/example/queuebot/internal/wire"
)

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	var as int64
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export participants and the queue to an Excel workbook (admin only)",
		Long: `Export participants and the queue to an Excel workbook.

Examples:
  queuebot export
  queuebot export -o /tmp/queue.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := wire.Get()
			if err != nil {
				return err
			}
			defer services.Close()

			caller, err := resolveOperator(services.Config, as)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}

			status, err := services.QueueAdapterWithOutput(cmd.OutOrStdout()).Export(cmd.Context(), caller, f, output)
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("failed to write %s: %w", output, closeErr)
			}
			if err != nil || status != queue.StatusOK {
				os.Remove(output)
			}
			return err
		},
	}
	operatorFlag(cmd, &as)
	cmd.Flags().StringVarP(&output, "output", "o", export.FileName, "Output file")

	return cmd
}
