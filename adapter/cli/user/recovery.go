package user

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	"github.com/spf13/cobra"
)

var resetTokenCmd = &cobra.Command{
	Use:   "reset-token [email]",
	Short: "Issue a one-time access recovery token",
	Long: `Issue a one-time token that lets an active user recover access. The
token expires after RESET_TOKEN_TTL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		token, err := app.RecoveryService.Issue(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover [token]",
	Short: "Redeem an access recovery token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		userID, err := app.RecoveryService.Redeem(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token accepted for user %s\n", userID)
		return nil
	},
}
