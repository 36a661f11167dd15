package user

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	identityQueries "github.com/felixgeelhaar/planify/internal/identity/application/queries"
	scheduleQueries "github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users who can take part in meetings",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		users, err := app.ListUsersHandler.Handle(cmd.Context(), identityQueries.ListUsersQuery{})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, users)
		}
		if len(users) == 0 {
			fmt.Fprintln(out, "No available users.")
			return nil
		}
		for _, u := range users {
			fmt.Fprintf(out, "%s  %-30s %s\n", u.ID, u.Email, u.FullName)
		}
		return nil
	},
}

var openMeetingsCmd = &cobra.Command{
	Use:   "open-meetings [user]",
	Short: "Show how many open meetings a user takes part in",
	Long: `Show how many open meetings a user organizes or is invited to.
Without an argument the acting user is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		var userID uuid.UUID
		if len(args) == 1 {
			userID, err = app.ResolveUser(cmd.Context(), args[0])
		} else {
			userID, err = app.Actor()
		}
		if err != nil {
			return err
		}

		result, err := app.HasOpenMeetingsHandler.Handle(cmd.Context(), scheduleQueries.HasOpenMeetingsQuery{UserID: userID})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}
		fmt.Fprintf(out, "Open meetings: %d\n", result.OpenMeetings)
		return nil
	},
}
