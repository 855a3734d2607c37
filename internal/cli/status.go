package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/engine"
	"github.com/danieljhkim/festplan/internal/planner"
)

// statusCmd summarizes the plan.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show plan status",
	Long:  `Display selection counts, priorities and per-day status of the current plan.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.Status(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return outputJSON(w, result)
			}

			PrintSection(w, "Plan Status")
			PrintLabelValue(w, "Plan", result.Plan)
			if result.Festival != "" {
				PrintLabelValue(w, "Festival", result.Festival)
			}
			PrintLabelValue(w, "Lineup", result.CatalogPath)
			if !result.UpdatedAt.IsZero() {
				PrintLabelValue(w, "Updated", result.UpdatedAt.Local().Format(time.RFC1123))
			}
			PrintLabelValue(w, "Selected", fmt.Sprintf("%d of %d concerts", result.Selected, result.TotalConcerts))
			PrintLabelValueWithColor(w, "Attending", fmt.Sprintf("%d", result.Attending), successColor)
			if result.Conflicting > 0 {
				PrintLabelValueWithColor(w, "Conflicting", fmt.Sprintf("%d", result.Conflicting), warningColor)
			} else {
				PrintLabelValue(w, "Conflicting", "0")
			}
			for _, p := range planner.Priorities {
				PrintLabelValue(w, priorityLabel(p), fmt.Sprintf("%d", result.PriorityCounts[p]))
			}

			if result.CatalogChanged {
				_, _ = fmt.Fprintln(w)
				PrintWarning(w, "The lineup changed since this plan was saved; selections missing from it were dropped")
			}

			_, _ = fmt.Fprintln(w)
			PrintSubsection(w, "Days")
			if len(result.Days) == 0 {
				PrintEmptyState(w, "No concerts selected")
			} else {
				rows := make([][]string, 0, len(result.Days))
				for _, d := range result.Days {
					mark := ""
					if d.Conflicted {
						mark = warningColor.Sprint("conflicts")
					}
					rows = append(rows, []string{
						string(d.Day),
						fmt.Sprintf("%d", d.Winners),
						fmt.Sprintf("%d", d.Selections),
						mark,
					})
				}
				PrintTable(w, []string{"Day", "Attending", "Selected", ""}, rows)
			}

			if len(result.Plans) > 1 {
				_, _ = fmt.Fprintln(w)
				PrintSubsection(w, "Other plans")
				others := make([]string, 0, len(result.Plans)-1)
				for _, name := range result.Plans {
					if name != result.Plan {
						others = append(others, name)
					}
				}
				PrintList(w, others, 1)
			}
			return nil
		})
	},
}
