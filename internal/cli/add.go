package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/engine"
)

// addCmd toggles concerts in the plan.
var addCmd = &cobra.Command{
	Use:   "add <concert-id>...",
	Short: "Add concerts to the plan",
	Long: `Add one or more concerts to the plan.

New picks get the highest priority not already taken by a concert they overlap.
Adding a concert that is already in the plan removes it again.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.Add(ctx, &engine.AddRequest{IDs: args})
			if err != nil {
				return err
			}
			return printMutation(cmd.OutOrStdout(), result)
		})
	},
}

// rmCmd removes concerts from the plan.
var rmCmd = &cobra.Command{
	Use:     "rm <concert-id>...",
	Aliases: []string{"remove"},
	Short:   "Remove concerts from the plan",
	Long: `Remove one or more concerts from the plan.

Concerts that overlapped a removed one move up in priority where a slot frees up.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.Remove(ctx, &engine.RemoveRequest{IDs: args})
			if err != nil {
				return err
			}
			return printMutation(cmd.OutOrStdout(), result)
		})
	},
}

// printMutation reports the changes of a mutation and the plan totals.
func printMutation(w io.Writer, result *engine.MutationResult) error {
	if jsonOutput {
		return outputJSON(w, result)
	}

	for _, c := range result.Changes {
		name := fmt.Sprintf("%s (%s)", c.Artist, c.ID)
		switch c.Action {
		case engine.ActionRemoved, engine.ActionCleared:
			PrintSuccess(w, fmt.Sprintf("%s %s", actionVerb(c.Action), name))
		default:
			PrintSuccess(w, fmt.Sprintf("%s %s: %s, %s",
				actionVerb(c.Action), name, priorityLabel(c.Priority), attendance(true, c.Winner)))
		}
	}

	snap := result.Snapshot
	PrintInfo(w, fmt.Sprintf("%s, %d attending, %s",
		PrintCount(len(snap.Selections), "selection", "selections"),
		len(snap.WinnerIDs),
		PrintCount(snap.ConflictCount, "conflict", "conflicts")))
	return nil
}

func actionVerb(action string) string {
	switch action {
	case engine.ActionAdded:
		return "Added"
	case engine.ActionRemoved:
		return "Removed"
	case engine.ActionPrioritized:
		return "Prioritized"
	case engine.ActionSwapped:
		return "Swapped"
	case engine.ActionCleared:
		return "Cleared"
	default:
		return action
	}
}
