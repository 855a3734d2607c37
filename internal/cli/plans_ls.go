package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/engine"
)

// plansLsCmd lists all stored plans.
var plansLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.ListPlans(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return outputJSON(w, result)
			}

			PrintSection(w, "Plans")
			if len(result.Plans) == 0 {
				PrintEmptyState(w, "No plans saved yet")
				return nil
			}

			rows := make([][]string, 0, len(result.Plans))
			for _, p := range result.Plans {
				activeMark := " "
				if p.Active {
					activeMark = "✓"
				}
				rows = append(rows, []string{
					activeMark,
					p.Name,
					fmt.Sprintf("%d", p.Selections),
					p.UpdatedAt.Local().Format(time.DateTime),
				})
			}
			PrintTable(w, []string{"", "Name", "Selections", "Updated"}, rows)
			return nil
		})
	},
}
