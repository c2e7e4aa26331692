package linear

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	lnErrors "github.com/linearapp/linear-mcp-server/pkg/errors"
	"github.com/linearapp/linear-mcp-server/pkg/inventory"
	"github.com/linearapp/linear-mcp-server/pkg/linearapi"
	"github.com/linearapp/linear-mcp-server/pkg/translations"
	"github.com/linearapp/linear-mcp-server/pkg/utils"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// commentResult is the host-facing payload for comment operations.
type commentResult struct {
	Message string             `json:"message"`
	Comment *linearapi.Comment `json:"comment"`
}

// AddComment creates a tool to add a comment to a Linear issue.
func AddComment(t translations.TranslationHelperFunc) inventory.ServerTool {
	return NewTool(
		ToolsetMetadataIssues,
		mcp.Tool{
			Name:        "linear_add_comment",
			Description: t("TOOL_LINEAR_ADD_COMMENT_DESCRIPTION", "Add a comment to a Linear issue. The body supports markdown. Optionally set a custom author name and avatar for the comment."),
			Annotations: &mcp.ToolAnnotations{
				Title:        t("TOOL_LINEAR_ADD_COMMENT_USER_TITLE", "Add comment"),
				ReadOnlyHint: false,
			},
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"issue_id": {
						Type:        "string",
						Description: "ID of the issue to comment on",
					},
					"body": {
						Type:        "string",
						Description: "Comment text (markdown supported)",
					},
					"create_as_user": {
						Type:        "string",
						Description: "Custom author name to show for the comment",
					},
					"display_icon_url": {
						Type:        "string",
						Description: "Avatar URL to show for the comment author",
					},
				},
				Required: []string{"issue_id", "body"},
			},
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
			issueID, err := RequiredParam[string](args, "issue_id")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}
			body, err := RequiredParam[string](args, "body")
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			}

			params := linearapi.AddCommentParams{
				IssueID: issueID,
				Body:    body,
			}
			if createAsUser, ok, err := OptionalParamOK[string](args, "create_as_user"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				params.CreateAsUser = &createAsUser
			}
			if displayIconURL, ok, err := OptionalParamOK[string](args, "display_icon_url"); err != nil {
				return utils.NewToolResultError(err.Error()), nil, nil
			} else if ok {
				params.DisplayIconURL = &displayIconURL
			}

			client, err := deps.GetClient(ctx)
			if err != nil {
				return utils.NewToolResultErrorFromErr("failed to get Linear client", err), nil, nil
			}
			comment, err := client.AddComment(ctx, params)
			if err != nil {
				return lnErrors.NewLinearErrorResponse(ctx, "failed to add comment", err), nil, nil
			}

			return MarshalledTextResult(commentResult{
				Message: fmt.Sprintf("Added comment to issue %s", issueID),
				Comment: comment,
			}), nil, nil
		})
}
