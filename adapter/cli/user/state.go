package user

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	identityCommands "github.com/felixgeelhaar/planify/internal/identity/application/commands"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	"github.com/spf13/cobra"
)

var activateCmd = &cobra.Command{
	Use:   "activate [user]",
	Short: "Activate a registered user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := app.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if err := app.UserStateHandler.Activate(cmd.Context(), identityCommands.ActivateUserCommand{
			UserID:  userID,
			ActorID: app.CurrentUserID,
		}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "User activated.")
		return nil
	},
}

var blockCmd = &cobra.Command{
	Use:   "block [user]",
	Short: "Block a user",
	Long: `Block a user. Open meetings they organize are cancelled and they are
withdrawn from the rest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := app.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		result, err := app.BlockUserHandler.Handle(cmd.Context(), scheduleCommands.BlockUserCommand{
			UserID:  userID,
			ActorID: app.CurrentUserID,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "User blocked.")
		for _, msg := range result.Messages {
			fmt.Fprintf(out, "  %s\n", msg)
		}
		return nil
	},
}

var unblockCmd = &cobra.Command{
	Use:   "unblock [user]",
	Short: "Lift the block on a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := app.ResolveUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if err := app.UserStateHandler.Unblock(cmd.Context(), identityCommands.UnblockUserCommand{
			UserID:  userID,
			ActorID: app.CurrentUserID,
		}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "User unblocked.")
		return nil
	},
}
