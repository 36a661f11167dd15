package notification

import (
	"fmt"

	"github.com/felixgeelhaar/planify/adapter/cli"
	scheduleCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	scheduleQueries "github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

// Cmd is the notification command group
var Cmd = &cobra.Command{
	Use:     "notification",
	Aliases: []string{"notifications"},
	Short:   "Read your notifications",
}

var listUnread bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notifications, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}

		notifications, err := app.ListNotificationsHandler.Handle(cmd.Context(), scheduleQueries.ListNotificationsQuery{
			UserID:     actor,
			UnreadOnly: listUnread,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, notifications)
		}
		if len(notifications) == 0 {
			fmt.Fprintln(out, "No notifications.")
			return nil
		}
		for _, n := range notifications {
			mark := "*"
			if n.Read {
				mark = " "
			}
			fmt.Fprintf(out, "%s %s  %s  %s\n", mark, n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Description)
		}
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read [notification-id]",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("notification", args[0])
		if err != nil {
			return err
		}

		if err := app.MarkNotificationReadHandler.Handle(cmd.Context(), scheduleCommands.MarkNotificationReadCommand{
			NotificationID: id,
			RecipientID:    actor,
		}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Notification marked as read.")
		return nil
	},
}

var discardCmd = &cobra.Command{
	Use:   "discard [notification-id]",
	Short: "Discard a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, actor, err := cli.RequireActor()
		if err != nil {
			return err
		}
		id, err := cli.ParseID("notification", args[0])
		if err != nil {
			return err
		}

		if err := app.DiscardNotificationHandler.Handle(cmd.Context(), scheduleCommands.DiscardNotificationCommand{
			NotificationID: id,
			RecipientID:    actor,
		}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Notification discarded.")
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listUnread, "unread", false, "only unread notifications")

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(readCmd)
	Cmd.AddCommand(discardCmd)
}
