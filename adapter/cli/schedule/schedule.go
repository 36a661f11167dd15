package schedule

import (
	"github.com/spf13/cobra"
)

// Cmd is the schedule command group
var Cmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the shared work schedule",
	Long:  `Configure and view the work schedule blocks meetings must fit into.`,
}

func init() {
	Cmd.AddCommand(configureCmd)
	Cmd.AddCommand(showCmd)
}
