package linear

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/jsonschema-go/jsonschema"
	lnErrors "github.com/linearapp/linear-mcp-server/pkg/errors"
	"github.com/linearapp/linear-mcp-server/pkg/inventory"
	"github.com/linearapp/linear-mcp-server/pkg/linearapi"
	"github.com/linearapp/linear-mcp-server/pkg/translations"
	"github.com/linearapp/linear-mcp-server/pkg/utils"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// issueResult is the host-facing payload for single-issue operations.
type issueResult struct {
	Message string          `json:"message"`
	Issue   *linearapi.Issue `json:"issue"`
}

// issueListResult is the host-facing payload for multi-issue operations.
type issueListResult struct {
	Message string             `json:"message"`
	Issues  []*linearapi.Issue `json:"issues"`
}

// CreateIssue creates a tool to create a new Linear issue.
func CreateIssue(t translations.TranslationHelperFunc) inventory.ServerTool {
	return NewTool(
		ToolsetMetadataIssues,
		mcp.Tool{
			Name:        "linear_create_issue",
			Description: t("TOOL_LINEAR_CREATE_ISSUE_DESCRIPTION", "Create a new issue in Linear. Requires a title and the ID of the team the issue belongs to. Description supports markdown; priority runs from 0 (none) to 4 (low); status is matched against the team's workflow state names."),
			Annotations: &mcp.ToolAnnotations{
				Title:        t("TOOL_LINEAR_CREATE_ISSUE_USER_TITLE", "Create issue"),
				ReadOnlyHint: false,
			},
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"title": {
						Type:        "string",
						Description: "Issue title",
					},
					"team_id": {
						Type:        "string",
						Description: "ID of the team to create the issue in",
					},
					"description": {
						Type:        "string",
						Description: "Issue description (markdown supported)",
					},
					"priority": {
						Type:        "number",
						Description: "Priority (0-4, where 0 is no priority and 1 is urgent)",
					},
					"status": {
						Type:        "string",
						Description: "Workflow state name, e.g. 'In Progress'",
					},
				},
				Required: []string{"title", "team_id"},
			},
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			title, err := RequiredParam[string](args, "title")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			teamID, err := RequiredParam[string](args, "team_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			params := linearapi.CreateIssueParams{
				Title:  title,
				TeamID: teamID,
			}
			if description, ok, err := OptionalParamOK[string](args, "description"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				params.Description = &description
			}
			if priority, ok, err := OptionalParamOK[float64](args, "priority"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				p := int(priority)
				params.Priority = &p
			}
			if status, ok, err := OptionalParamOK[string](args, "status"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				params.Status = &status
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Linear client", err), nil, nil
			}
			issue, err := client.CreateIssue(ctx, params)
			if err != nil {
				return lnErrors.NewLinearErrorResponse(ctx, "failed to create issue", err), nil, nil
			}

			return MarshalledTextResult(issueResult{
				Message: fmt.Sprintf("Created issue %s: %s", issue.Identifier, issue.Title),
				Issue:   issue,
			}), nil, nil
		})
}

// UpdateIssue creates a tool to update an existing Linear issue.
func UpdateIssue(t translations.TranslationHelperFunc) inventory.ServerTool {
	return NewTool(
		ToolsetMetadataIssues,
		mcp.Tool{
			Name:        "linear_update_issue",
			Description: t("TOOL_LINEAR_UPDATE_ISSUE_DESCRIPTION", "Update an existing Linear issue. Only the provided fields change; passing an empty string clears a text field."),
			Annotations: &mcp.ToolAnnotations{
				Title:        t("TOOL_LINEAR_UPDATE_ISSUE_USER_TITLE", "Update issue"),
				ReadOnlyHint: false,
			},
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"issue_id": {
						Type:        "string",
						Description: "ID of the issue to update",
					},
					"title": {
						Type:        "string",
						Description: "New title",
					},
					"description": {
						Type:        "string",
						Description: "New description",
					},
					"priority": {
						Type:        "number",
						Description: "New priority (0-4)",
					},
					"status": {
						Type:        "string",
						Description: "New workflow state name",
					},
				},
				Required: []string{"issue_id"},
			},
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			issueID, err := RequiredParam[string](args, "issue_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			var params linearapi.UpdateIssueParams
			if title, ok, err := OptionalParamOK[string](args, "title"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				params.Title = &title
			}
			if description, ok, err := OptionalParamOK[string](args, "description"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				params.Description = &description
			}
			if priority, ok, err := OptionalParamOK[float64](args, "priority"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				p := int(priority)
				params.Priority = &p
			}
			if status, ok, err := OptionalParamOK[string](args, "status"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				params.Status = &status
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Linear client", err), nil, nil
			}
			issue, err := client.UpdateIssue(ctx, issueID, params)
			if err != nil {
				return lnErrors.NewLinearErrorResponse(ctx, "failed to update issue", err), nil, nil
			}

			return MarshalledTextResult(issueResult{
				Message: fmt.Sprintf("Updated issue %s", issue.Identifier),
				Issue:   issue,
			}), nil, nil
		})
}

// SearchIssues creates a tool to search Linear issues with filters.
func SearchIssues(t translations.TranslationHelperFunc) inventory.ServerTool {
	return NewTool(
		ToolsetMetadataIssues,
		mcp.Tool{
			Name:        "linear_search_issues",
			Description: t("TOOL_LINEAR_SEARCH_ISSUES_DESCRIPTION", "Search Linear issues with flexible filtering. All filters are optional and combine with AND semantics; the text query matches against titles and descriptions."),
			Annotations: &mcp.ToolAnnotations{
				Title:        t("TOOL_LINEAR_SEARCH_ISSUES_USER_TITLE", "Search issues"),
				ReadOnlyHint: true,
			},
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"query": {
						Type:        "string",
						Description: "Text to match in issue titles and descriptions",
					},
					"team_id": {
						Type:        "string",
						Description: "Team ID or team key (e.g. 'ENG') to scope the search to",
					},
					"status": {
						Type:        "string",
						Description: "Workflow state name, e.g. 'In Progress', 'Done'",
					},
					"assignee_id": {
						Type:        "string",
						Description: "User ID of the assignee",
					},
					"labels": {
						Type:        "array",
						Items:       &jsonschema.Schema{Type: "string"},
						Description: "Label names; issues carrying any of them match",
					},
					"priority": {
						Type:        "number",
						Description: "Exact priority level (0-4)",
					},
					"limit": {
						Type:        "number",
						Description: "Max results (default: 10)",
					},
				},
			},
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			query, err := OptionalParam[string](args, "query")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			teamRef, err := OptionalParam[string](args, "team_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			status, err := OptionalParam[string](args, "status")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			assigneeID, err := OptionalParam[string](args, "assignee_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			labels, err := OptionalStringArrayParam(args, "labels")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			limit, err := OptionalIntParamWithDefault(args, "limit", 10)
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			params := linearapi.SearchIssuesParams{
				Query:      query,
				Status:     status,
				AssigneeID: assigneeID,
				Labels:     labels,
				Limit:      limit,
			}
			if teamRef != "" {
				params.Team = linearapi.ParseTeamRef(teamRef)
			}
			if priority, ok, err := OptionalParamOK[float64](args, "priority"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				p := int(priority)
				params.Priority = &p
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Linear client", err), nil, nil
			}
			issues, err := client.SearchIssues(ctx, params)
			if err != nil {
				return lnErrors.NewLinearErrorResponse(ctx, "failed to search issues", err), nil, nil
			}

			return MarshalledTextResult(issueListResult{
				Message: fmt.Sprintf("Found %d matching issues", len(issues)),
				Issues:  issues,
			}), nil, nil
		})
}

// GetUserIssues creates a tool to list the issues assigned to a user.
func GetUserIssues(t translations.TranslationHelperFunc) inventory.ServerTool {
	return NewTool(
		ToolsetMetadataIssues,
		mcp.Tool{
			Name:        "linear_get_user_issues",
			Description: t("TOOL_LINEAR_GET_USER_ISSUES_DESCRIPTION", "Get issues assigned to a user, most recently updated first. Omit user_id to get issues assigned to the authenticated user."),
			Annotations: &mcp.ToolAnnotations{
				Title:        t("TOOL_LINEAR_GET_USER_ISSUES_USER_TITLE", "Get user issues"),
				ReadOnlyHint: true,
			},
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"user_id": {
						Type:        "string",
						Description: "User ID; omit for the authenticated user",
					},
					"include_archived": {
						Type:        "boolean",
						Description: "Include archived issues (default: false)",
					},
					"limit": {
						Type:        "number",
						Description: "Max results (default: 50)",
					},
				},
			},
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			var params struct {
				UserID          string `mapstructure:"user_id"`
				IncludeArchived bool   `mapstructure:"include_archived"`
				Limit           int    `mapstructure:"limit"`
			}
			if err := mapstructure.Decode(args, &params); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			if params.Limit == 0 {
				params.Limit = 50
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Linear client", err), nil, nil
			}
			issues, err := client.UserIssues(ctx, linearapi.UserIssuesParams{
				UserID:          params.UserID,
				IncludeArchived: params.IncludeArchived,
				Limit:           params.Limit,
			})
			if err != nil {
				return lnErrors.NewLinearErrorResponse(ctx, "failed to get user issues", err), nil, nil
			}

			return MarshalledTextResult(issueListResult{
				Message: fmt.Sprintf("Found %d assigned issues", len(issues)),
				Issues:  issues,
			}), nil, nil
		})
}

// ListIssues creates a tool to list the most recent issues in the workspace.
func ListIssues(t translations.TranslationHelperFunc) inventory.ServerTool {
	return NewTool(
		ToolsetMetadataIssues,
		mcp.Tool{
			Name:        "linear_list_issues",
			Description: t("TOOL_LINEAR_LIST_ISSUES_DESCRIPTION", "List the most recent issues in the Linear workspace across all teams."),
			Annotations: &mcp.ToolAnnotations{
				Title:        t("TOOL_LINEAR_LIST_ISSUES_USER_TITLE", "List issues"),
				ReadOnlyHint: true,
			},
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"limit": {
						Type:        "number",
						Description: "Max results (default: 25)",
					},
				},
			},
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			limit, err := OptionalIntParamWithDefault(args, "limit", 25)
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Linear client", err), nil, nil
			}
			issues, err := client.ListIssues(ctx, limit)
			if err != nil {
				return lnErrors.NewLinearErrorResponse(ctx, "failed to list issues", err), nil, nil
			}

			return MarshalledTextResult(issueListResult{
				Message: fmt.Sprintf("Found %d issues", len(issues)),
				Issues:  issues,
			}), nil, nil
		})
}
