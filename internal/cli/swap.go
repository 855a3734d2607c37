package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/engine"
)

// swapCmd promotes a losing concert over the winner it overlaps.
var swapCmd = &cobra.Command{
	Use:   "swap <winner-id> <conflict-id>",
	Short: "Attend a conflicting concert instead",
	Long: `Swap a concert you are attending for one that overlaps it.

The conflicting concert becomes a must see and wins; the former winner drops to
the next free priority.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.Swap(ctx, &engine.SwapRequest{MainID: args[0], ConflictID: args[1]})
			if err != nil {
				return err
			}
			return printMutation(cmd.OutOrStdout(), result)
		})
	},
}
