package cli

import (
	"github.com/spf13/cobra"
)

// plansCmd is the parent command for stored plan management.
var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage stored plans",
	Long: `Manage the plans kept in the state store.

Switch between plans with --plan or FESTPLAN_PLAN.`,
}

func init() {
	plansCmd.AddCommand(plansLsCmd)
	plansCmd.AddCommand(plansDescribeCmd)
	plansCmd.AddCommand(plansRmCmd)
}
