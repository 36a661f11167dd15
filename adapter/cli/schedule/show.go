package schedule

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/planify/internal/scheduling/infrastructure/schedulefile"
	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the work schedule",
	Long: `Display the work schedule blocks in order.

Examples:
  planify schedule show
  planify schedule show --save schedule.yaml`,
	Aliases: []string{"view"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		blocks, err := app.GetWorkScheduleHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get work schedule: %w", err)
		}

		if showOutput != "" {
			inputs := make([]scheduleCommands.WorkScheduleBlockInput, 0, len(blocks))
			for _, b := range blocks {
				inputs = append(inputs, scheduleCommands.WorkScheduleBlockInput{Name: b.Name, Start: b.Start, End: b.End})
			}
			if err := schedulefile.Save(showOutput, inputs); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, blocks)
		}
		if len(blocks) == 0 {
			fmt.Fprintln(out, "No work schedule configured yet.")
			fmt.Fprintln(out, "Use 'planify schedule configure --file schedule.yaml' to set one up.")
			return nil
		}

		fmt.Fprintln(out, "Work schedule")
		fmt.Fprintln(out, strings.Repeat("=", 40))
		for _, b := range blocks {
			fmt.Fprintf(out, "%s - %s  %s\n", b.Start, b.End, b.Name)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showOutput, "save", "", "also write the schedule to this YAML file")
}
