package user

import (
	"github.com/spf13/cobra"
)

// Cmd is the user command group
var Cmd = &cobra.Command{
	Use:   "user",
	Short: "Administer users",
	Long:  `Register users and change whether they can take part in meetings.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(activateCmd)
	Cmd.AddCommand(blockCmd)
	Cmd.AddCommand(unblockCmd)
	Cmd.AddCommand(openMeetingsCmd)
	Cmd.AddCommand(resetTokenCmd)
	Cmd.AddCommand(recoverCmd)
}
