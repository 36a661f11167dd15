package user

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	identityCommands "github.com/felixgeelhaar/planify/internal/identity/application/commands"
	"github.com/spf13/cobra"
)

var (
	addName     string
	addSurname  string
	addActivate bool
)

var addCmd = &cobra.Command{
	Use:   "add [email]",
	Short: "Register a user",
	Long: `Register a user. New users cannot be invited until they are
activated.

Examples:
  planify user add ana@example.com --name Ana --surname Ruiz --activate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		result, err := app.CreateUserHandler.Handle(cmd.Context(), identityCommands.CreateUserCommand{
			Email:    args[0],
			Name:     addName,
			Surname:  addSurname,
			Activate: addActivate,
			ActorID:  app.CurrentUserID,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created user: %s\n", result.UserID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addName, "name", "n", "", "first name")
	addCmd.Flags().StringVar(&addSurname, "surname", "", "surname")
	addCmd.Flags().BoolVar(&addActivate, "activate", false, "activate the user right away")
}
