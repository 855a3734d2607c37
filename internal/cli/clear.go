package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/engine"
)

var clearForce bool

// clearCmd removes every selection from the plan.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every concert from the plan",
	Long: `Remove every concert from the current plan.

A plan with selections is only cleared with --force. Use 'festplan export' first
to keep a copy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			current, err := eng.Plan(ctx)
			if err != nil {
				return err
			}
			if n := len(current.Snapshot.Selections); n > 0 && !clearForce {
				return fmt.Errorf("%w: plan %q has %s; use --force to clear it",
					engine.ErrValidation, current.Name, PrintCount(n, "selection", "selections"))
			}

			result, err := eng.Clear(ctx, &engine.ClearRequest{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return outputJSON(w, result)
			}

			PrintSection(w, "Clear Plan")
			PrintSuccess(w, fmt.Sprintf("Cleared %s from plan %s",
				PrintCount(len(result.Changes), "selection", "selections"), current.Name))
			return nil
		})
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Clear even if the plan has selections")
}
