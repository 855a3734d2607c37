package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/engine"
)

// priorityCmd forces the priority of a selected concert.
var priorityCmd = &cobra.Command{
	Use:   "priority <concert-id> <1-3>",
	Short: "Set the priority of a selected concert",
	Long: `Set the priority of a concert in the plan: 1 (must see), 2 (want) or 3 (maybe).

Overlapping concerts ranked the same or higher drop one level below it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: priority must be 1-3, got %q", engine.ErrValidation, args[1])
		}

		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.SetPriority(ctx, &engine.SetPriorityRequest{ID: args[0], Priority: p})
			if err != nil {
				return err
			}
			return printMutation(cmd.OutOrStdout(), result)
		})
	},
}
