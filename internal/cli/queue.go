package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/queuebot/internal/wire"
)

// QueueCmd returns the queue command
func QueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the queue",
		Long:  `Inspect and manage the queue directly against the database, without going through the chat.`,
	}

	cmd.AddCommand(queueListCmd())
	cmd.AddCommand(queuePositionCmd())
	cmd.AddCommand(queueClearCmd())
	cmd.AddCommand(queueRemoveCmd())

	return cmd
}

func queueListCmd() *cobra.Command {
	var as int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the queue in order",
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
			_, err = services.QueueAdapterWithOutput(cmd.OutOrStdout()).List(cmd.Context(), caller)
			return err
		},
	}
	operatorFlag(cmd, &as)

	return cmd
}

func queuePositionCmd() *cobra.Command {
	var as int64

	cmd := &cobra.Command{
		Use:   "position",
		Short: "Show a participant's place in the queue",
		Long: `Show a participant's place in the queue.

Examples:
  queuebot queue position --as 123456789`,
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
			_, err = services.QueueAdapterWithOutput(cmd.OutOrStdout()).Position(cmd.Context(), caller)
			return err
		},
	}
	operatorFlag(cmd, &as)

	return cmd
}

func queueClearCmd() *cobra.Command {
	var as int64

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove everyone from the queue (admin only)",
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
			_, err = services.QueueAdapterWithOutput(cmd.OutOrStdout()).Clear(cmd.Context(), caller)
			return err
		},
	}
	operatorFlag(cmd, &as)

	return cmd
}

func queueRemoveCmd() *cobra.Command {
	var as int64

	cmd := &cobra.Command{
		Use:   "remove [participant-id]",
		Short: "Remove one participant from the queue (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || targetID <= 0 {
				return fmt.Errorf("invalid participant id %q", args[0])
			}

			services, err := wire.Get()
			if err != nil {
				return err
			}
			defer services.Close()

			caller, err := resolveOperator(services.Config, as)
			if err != nil {
				return err
			}
			_, err = services.QueueAdapterWithOutput(cmd.OutOrStdout()).Remove(cmd.Context(), caller, targetID)
			return err
		},
	}
	operatorFlag(cmd, &as)

	return cmd
}
