package linear

import (
	"context"

	"github.com/linearapp/linear-mcp-server/pkg/inventory"
	"github.com/linearapp/linear-mcp-server/pkg/translations"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const usagePromptText = `This server provides access to Linear, a project management tool. Use it to manage issues, track work, and coordinate with teams.

Key capabilities:
- Create and update issues: Create new tickets or modify existing ones with titles, descriptions, priorities, and team assignments.
- Search functionality: Find issues across the organization using flexible search queries with team and user filters.
- Team coordination: Access team-specific issues and manage work distribution within teams.
- Issue tracking: Add comments and track progress through status updates and assignments.
- Organization overview: View team structures and user assignments across the organization.

Tool Usage:
- linear_create_issue:
  - use team_id from the linear-organization: resource
  - priority levels: 1=urgent, 2=high, 3=normal, 4=low
  - status must match exact Linear workflow state names (e.g., "In Progress", "Done")

- linear_update_issue:
  - get issue IDs from linear_search_issues or linear-issue:/// resources
  - only include fields you want to change

- linear_search_issues:
  - combine multiple filters for precise results
  - use the labels array for multiple tag filtering
  - query searches both title and description
  - returns max 10 results by default

- linear_get_user_issues:
  - omit user_id to get the authenticated user's issues
  - useful for workload analysis and sprint planning
  - returns most recently updated issues first

- linear_add_comment:
  - supports full markdown formatting
  - use display_icon_url for bot/integration avatars
  - create_as_user for custom comment attribution

Best practices:
- When creating issues:
  - Write clear, actionable titles that describe the task well
  - Include concise but appropriately detailed descriptions in markdown format with context and acceptance criteria
  - Set appropriate priority based on the context (1=critical to 4=nice-to-have)
  - Always specify the correct team ID (default to the user's team if possible)

- When searching:
  - Use specific, targeted queries for better results (e.g., "auth mobile app" rather than just "auth")
  - Apply relevant filters when asked or when you can infer the appropriate filters to narrow results

- When adding comments:
  - Use markdown formatting to improve readability and structure
  - Keep content focused on the specific issue and relevant updates
  - Include action items or next steps when appropriate

- General best practices:
  - Fetch organization data first to get valid team IDs
  - Use linear_search_issues to find issues for bulk operations
  - Include markdown formatting in descriptions and comments

Resource patterns:
- linear-issue:///{issueId} - Single issue details
- linear-team:///{teamId}/issues - Team's issue list
- linear-user:///{userId}/assigned - User assignments; use 'me' for the authenticated user
- linear-organization: - Organization for the current user
- linear-viewer: - Current user context

The server uses the authenticated user's permissions for all operations.`

// UsagePrompt provides guidance on how to work with the Linear tools and
// resources this server exposes.
func UsagePrompt(t translations.TranslationHelperFunc) inventory.ServerPrompt {
	return inventory.NewServerPrompt(
		ToolsetMetadataContext,
		mcp.Prompt{
			Name:        "default",
			Description: t("PROMPT_DEFAULT_DESCRIPTION", "Guidance for working with Linear issues, teams and users through this server"),
		},
		func(_ context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			return &mcp.GetPromptResult{
				Messages: []*mcp.PromptMessage{
					{
						Role:    "user",
						Content: &mcp.TextContent{Text: usagePromptText},
					},
				},
			}, nil
		},
	)
}
