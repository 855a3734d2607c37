package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/festplan/internal/catalog"
	"github.com/danieljhkim/festplan/internal/engine"
)

var (
	browseArtist      string
	browseDays        []string
	browseStages      []string
	browsePriorities  []int
	browseNotSelected bool
)

// browseCmd lists the lineup with plan annotations.
var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"lineup"},
	Short:   "Browse the festival lineup",
	Long: `List the lineup by day, marking the concerts in your plan.

--priority and --not-selected combine: '--priority 1 --not-selected' shows must
sees and everything not yet picked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := catalog.Filter{
			Artist:      browseArtist,
			Stages:      browseStages,
			Priorities:  browsePriorities,
			NotSelected: browseNotSelected,
		}
		for _, v := range browseDays {
			day, err := catalog.ParseDay(v)
			if err != nil {
				return fmt.Errorf("%w: %v", engine.ErrValidation, err)
			}
			filter.Days = append(filter.Days, day)
		}

		return withEngine(cmd, func(ctx context.Context, eng *engine.Engine) error {
			result, err := eng.Browse(ctx, &engine.BrowseRequest{Filter: filter})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return outputJSON(w, result)
			}

			if result.Total == 0 {
				PrintSection(w, "Lineup")
				PrintEmptyState(w, "No concerts match")
				return nil
			}

			for _, day := range result.Days {
				PrintSection(w, fmt.Sprintf("%s (%s)", day.Day, PrintCount(len(day.Concerts), "concert", "concerts")))
				rows := make([][]string, 0, len(day.Concerts))
				for _, c := range day.Concerts {
					priority := ""
					if c.Selected {
						priority = priorityLabel(c.Priority)
					}
					rows = append(rows, []string{
						c.ID,
						fmt.Sprintf("%s-%s", c.Start, c.End),
						c.Artist,
						c.Stage,
						priority,
						attendance(c.Selected, c.Winner),
					})
				}
				PrintTable(w, []string{"ID", "Time", "Artist", "Stage", "Priority", "Status"}, rows)
			}
			return nil
		})
	},
}

func init() {
	browseCmd.Flags().StringVarP(&browseArtist, "artist", "a", "", "Only concerts whose artist contains this text")
	browseCmd.Flags().StringSliceVarP(&browseDays, "day", "d", nil, "Only these days (repeatable)")
	browseCmd.Flags().StringSliceVarP(&browseStages, "stage", "s", nil, "Only these stages (repeatable)")
	browseCmd.Flags().IntSliceVarP(&browsePriorities, "priority", "p", nil, "Only selections with these priorities (repeatable)")
	browseCmd.Flags().BoolVar(&browseNotSelected, "not-selected", false, "Only concerts not in the plan")
}
