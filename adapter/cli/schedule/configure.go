package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/planify/internal/scheduling/infrastructure/schedulefile"
	"github.com/spf13/cobra"
)

var configureFile string

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set up the work schedule from a YAML file",
	Long: `Set up the work schedule. Blocks must not overlap, and the schedule
can only be configured once.

The file lists the blocks:

  blocks:
    - name: Morning
      start: "09:00"
      end: "14:00"

Examples:
  planify schedule configure --file schedule.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if configureFile == "" {
			return fmt.Errorf("--file is required")
		}

		blocks, err := schedulefile.Load(configureFile)
		if err != nil {
			return err
		}

		result, err := app.ConfigureWorkScheduleHandler.Handle(cmd.Context(), scheduleCommands.ConfigureWorkScheduleCommand{
			ActorID: app.CurrentUserID,
			Blocks:  blocks,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Work schedule configured with %d blocks.\n", len(result.Schedule.Blocks()))
		return nil
	},
}

func init() {
	configureCmd.Flags().StringVarP(&configureFile, "file", "f", "", "YAML file with the schedule blocks")
}
