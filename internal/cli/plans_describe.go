package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/engine"
	"github.com/danieljhkim/festplan/internal/planner"
)

// plansDescribeCmd shows the stored content of a plan.
var plansDescribeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Show plan details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.DescribePlan(ctx, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return outputJSON(w, result)
			}

			PrintSection(w, "Plan Details")
			PrintLabelValue(w, "Name", result.Name)
			PrintLabelValue(w, "ID", result.PlanID)
			PrintLabelValue(w, "Active", fmt.Sprintf("%t", result.Active))
			PrintLabelValue(w, "Created", result.CreatedAt.Local().Format(time.RFC1123))
			PrintLabelValue(w, "Updated", result.UpdatedAt.Local().Format(time.RFC1123))
			if result.CatalogChanged {
				PrintWarning(w, "Saved against a different lineup")
			}

			_, _ = fmt.Fprintln(w)
			PrintSubsection(w, fmt.Sprintf("Selections (%s)", PrintCount(len(result.Entries), "concert", "concerts")))
			if len(result.Entries) == 0 {
				PrintEmptyState(w, "Plan is empty")
				return nil
			}

			rows := make([][]string, 0, len(result.Entries))
			for _, e := range result.Entries {
				artist := e.Artist
				if !e.Known {
					artist = warningColor.Sprint("not in lineup")
				}
				rows = append(rows, []string{
					e.ID,
					artist,
					string(e.Day),
					priorityLabel(planner.Priority(e.Priority)),
				})
			}
			PrintTable(w, []string{"ID", "Artist", "Day", "Priority"}, rows)
			return nil
		})
	},
}
