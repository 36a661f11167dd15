package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common Planify workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("plan_meeting").
		Description("Find a slot and invite the right people for a new meeting.").
		Argument("subject", "What the meeting is about", true).
		Argument("date", "Preferred date (YYYY-MM-DD)", false).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Plan a meeting", planMeetingText(args["subject"], args["date"])), nil
		})

	srv.Prompt("absence_impact").
		Description("Review which meetings an upcoming absence will affect before registering it.").
		Argument("from_date", "First day of the absence (YYYY-MM-DD)", true).
		Argument("to_date", "Last day of the absence (YYYY-MM-DD)", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Absence impact", absenceImpactText(args["from_date"], args["to_date"])), nil
		})

	srv.Prompt("inbox_review").
		Description("Go through unread notifications and answer pending invitations.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Inbox review", `Help me catch up on Planify. Please:

1. Read my unread notifications from the planify://notifications/unread resource
2. Check my open meetings using planify://meetings/open

For every invitation I have not answered yet, summarize the meeting and ask
whether I want to accept or reject it, then use meeting.respond. Mark each
notification you covered with notification.read.`), nil
		})

	return nil
}

func planMeetingText(subject, date string) string {
	when := "the next working day"
	if date != "" {
		when = date
	}
	return fmt.Sprintf(`I want to organize a meeting about %q on %s. Please:

1. Check the work schedule using the planify://schedule resource
2. Pick a slot inside a single schedule block
3. Use meeting.candidates for that slot and avoid people flagged with absences
4. Propose the invite list and, once I confirm, create it with meeting.create`, subject, when)
}

func absenceImpactText(from, to string) string {
	return fmt.Sprintf(`I will be away from %s to %s. Please:

1. Run absence.check for that window
2. List the meetings I would be withdrawn from, noting the ones I organize
   since those will be cancelled for everyone
3. Ask me for the absence type and, once I confirm, register it with absence.create`, from, to)
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}
