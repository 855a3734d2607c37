package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/engine"
)

var itineraryDay string

// itineraryCmd prints the attended concerts day by day.
var itineraryCmd = &cobra.Command{
	Use:     "itinerary",
	Aliases: []string{"schedule"},
	Short:   "Show the concerts you will attend, by day",
	Long: `Show the attended concerts of each festival day in start-time order, with the
selections each one beats.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.Itinerary(ctx, &engine.ItineraryRequest{Day: itineraryDay})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return outputJSON(w, result)
			}

			if len(result.Days) == 0 {
				PrintSection(w, "Itinerary")
				PrintEmptyState(w, "Nothing planned yet; add concerts with 'festplan add'")
				return nil
			}

			for _, day := range result.Days {
				PrintSection(w, string(day.Day))
				rows := make([][]string, 0, len(day.Entries))
				for _, entry := range day.Entries {
					c := entry.Concert
					skipped := make([]string, 0, len(entry.Conflicts))
					for _, lost := range entry.Conflicts {
						skipped = append(skipped, lost.Artist)
					}
					rows = append(rows, []string{
						fmt.Sprintf("%s-%s", c.Start, c.End),
						c.Artist,
						c.Stage,
						priorityLabel(c.Priority),
						dimColor.Sprint(strings.Join(skipped, ", ")),
					})
				}
				PrintTable(w, []string{"Time", "Artist", "Stage", "Priority", "Instead of"}, rows)
			}
			return nil
		})
	},
}

func init() {
	itineraryCmd.Flags().StringVarP(&itineraryDay, "day", "d", "", "Only show one day (e.g. fri, saturday)")
}
