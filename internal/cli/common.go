package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/queuebot/internal/config"
	"github.com/example/queuebot/internal/ports/primary"
)

// operatorFlag adds --as to commands that act on a participant's behalf.
func operatorFlag(cmd *cobra.Command, id *int64) {
	cmd.Flags().Int64Var(id, "as", 0, "Participant ID to act as (default: first configured admin)")
}

// resolveOperator picks the caller for operator commands: the --as value, or
// the lowest configured administrator ID.
func resolveOperator(cfg *config.Config, as int64) (primary.Caller, error) {
	if as != 0 {
		return primary.Caller{ID: as, DisplayName: "operator"}, nil
	}

	ids := cfg.Admins().IDs()
	if len(ids) == 0 {
		return primary.Caller{}, fmt.Errorf("no administrator configured; pass --as <id>")
	}
	return primary.Caller{ID: ids[0], DisplayName: "operator"}, nil
}
