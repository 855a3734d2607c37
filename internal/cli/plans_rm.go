package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/engine"
)

var (
	plansRmForce  bool
	plansRmDryRun bool
)

// plansRmCmd deletes a stored plan.
var plansRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a plan",
	Long: `Delete a stored plan permanently.

The plan selected with --plan is in use; deleting it needs --force and leaves it
empty.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.DeletePlan(ctx, &engine.DeletePlanRequest{
				Name:   args[0],
				Force:  plansRmForce,
				DryRun: plansRmDryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return outputJSON(w, result)
			}

			if plansRmDryRun {
				PrintSection(w, "Dry Run: Delete Plan")
				PrintInfo(w, fmt.Sprintf("Plan: %s", result.Name))
				PrintInfo(w, fmt.Sprintf("Selections: %d", result.Selections))
				_, _ = fmt.Fprintln(w)
				PrintWarning(w, "Run without --dry-run to delete")
				return nil
			}

			PrintSection(w, "Delete Plan")
			PrintSuccess(w, fmt.Sprintf("Deleted plan %s (%s)",
				result.Name, PrintCount(result.Selections, "selection", "selections")))
			return nil
		})
	},
}

func init() {
	plansRmCmd.Flags().BoolVarP(&plansRmForce, "force", "f", false, "Delete even if the plan is in use")
	plansRmCmd.Flags().BoolVar(&plansRmDryRun, "dry-run", false, "Show what would be deleted without deleting")
}
