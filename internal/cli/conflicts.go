package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/engine"
)

// conflictsCmd lists the selections overlapping one selection.
var conflictsCmd = &cobra.Command{
	Use:   "conflicts <concert-id>",
	Short: "Show the concerts overlapping a selection",
	Long: `List the concerts in the plan that overlap a selected concert by more than
15 minutes, ordered by start time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.Conflicts(ctx, &engine.ConflictsRequest{ID: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return outputJSON(w, result)
			}

			c := result.Concert
			PrintSection(w, fmt.Sprintf("Conflicts of %s", c.Artist))
			PrintLabelValue(w, "Concert", fmt.Sprintf("%s, %s %s-%s at %s", c.ID, c.Day, c.Start, c.End, c.Stage))
			PrintLabelValue(w, "Priority", priorityLabel(c.Priority))
			PrintLabelValue(w, "Status", attendance(true, result.Winner))
			_, _ = fmt.Fprintln(w)

			if len(result.Conflicts) == 0 {
				PrintEmptyState(w, "No conflicts")
				return nil
			}

			rows := make([][]string, 0, len(result.Conflicts))
			for _, info := range result.Conflicts {
				rows = append(rows, []string{
					info.ID,
					info.Artist,
					fmt.Sprintf("%s-%s", info.Start, info.End),
					info.Stage,
					priorityLabel(info.Priority),
					fmt.Sprintf("%d min", info.Overlap),
					attendance(true, info.Winner),
				})
			}
			PrintTable(w, []string{"ID", "Artist", "Time", "Stage", "Priority", "Overlap", "Status"}, rows)
			return nil
		})
	},
}
