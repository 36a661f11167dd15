package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/planify/pkg/observability"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	actingAs   string
	jsonOutput bool
	logger     *slog.Logger
)

type commandContext struct {
	startedAt time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "planify",
	Short: "Planify - meetings and absences for small teams",
	Long: `Planify schedules meetings inside a shared work schedule and keeps
them consistent with everyone's absences.

Commands act on behalf of the user given by --as (ID or email) or by
PLANIFY_USER_ID.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := observability.NewRequestContext(cmd.Context(), "")

		if actingAs != "" && app != nil {
			id, err := app.ResolveUser(ctx, actingAs)
			if err != nil {
				return err
			}
			app.SetCurrentUserID(id)
		}
		if app != nil && app.CurrentUserID != uuid.Nil {
			ctx = observability.WithActorID(ctx, app.CurrentUserID.String())
		}

		ctx = context.WithValue(ctx, commandContextKey{}, commandContext{startedAt: time.Now()})
		cmd.SetContext(ctx)
		logger.InfoContext(ctx, "command start", "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.InfoContext(cmd.Context(), "command end",
			"command", cmd.CommandPath(),
			observability.DurationKey, time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command with every registered child command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&actingAs, "as", "", "act as this user (ID or email)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.AddCommand(exportCmd)
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// JSONOutput reports whether --json was given.
func JSONOutput() bool {
	return jsonOutput
}

// SetJSONOutput toggles JSON output.
func SetJSONOutput(enabled bool) {
	jsonOutput = enabled
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
