package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/engine"
)

// exportCmd writes the plan to a file.
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the plan to a file",
	Long: `Write the current plan to a JSON file, or YAML when the file name ends in
.yaml or .yml. The file carries a checksum so edits are detected on import.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.Export(ctx, &engine.ExportRequest{Path: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return outputJSON(w, result)
			}
			PrintSuccess(w, fmt.Sprintf("Exported %s to %s",
				PrintCount(result.Selections, "selection", "selections"), result.Path))
			return nil
		})
	},
}

// importCmd replaces the plan with an exported file.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the plan with an exported file",
	Long: `Replace the current plan with the selections in an export file.

Selections whose concert is not in the lineup are skipped and listed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.Import(ctx, &engine.ImportRequest{Path: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return outputJSON(w, result)
			}

			PrintSuccess(w, fmt.Sprintf("Imported %s from %s",
				PrintCount(result.Restored, "selection", "selections"), result.Path))
			if len(result.Dropped) > 0 {
				PrintWarning(w, fmt.Sprintf("Skipped %s not in the lineup:",
					PrintCount(len(result.Dropped), "selection", "selections")))
				ids := make([]string, len(result.Dropped))
				for i, d := range result.Dropped {
					ids[i] = d.ID
				}
				PrintList(w, ids, 1)
			}
			return nil
		})
	},
}
