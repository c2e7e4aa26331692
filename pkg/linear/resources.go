package linear

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linearapp/linear-mcp-server/pkg/inventory"
	"github.com/linearapp/linear-mcp-server/pkg/linearapi"
	"github.com/linearapp/linear-mcp-server/pkg/translations"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"
)

var (
	issueResourceURITemplate        = uritemplate.MustNew("linear-issue:///{issueId}")
	teamIssuesResourceURITemplate   = uritemplate.MustNew("linear-team:///{teamId}/issues")
	userIssuesResourceURITemplate   = uritemplate.MustNew("linear-user:///{userId}/assigned")
	organizationResourceURITemplate = uritemplate.MustNew("linear-organization:")
	viewerResourceURITemplate       = uritemplate.MustNew("linear-viewer:")
)

// IssueResource defines the resource template for reading a single issue.
func IssueResource(t translations.TranslationHelperFunc) inventory.ServerResourceTemplate {
	return inventory.NewServerResourceTemplate(
		ToolsetMetadataIssues,
		mcp.ResourceTemplate{
			Name:        "issue",
			URITemplate: issueResourceURITemplate.Raw(),
			Description: t("RESOURCE_ISSUE_DESCRIPTION", "A Linear issue with its details"),
			MIMEType:    "application/json",
		},
		func(deps any) mcp.ResourceHandler {
			d := deps.(ToolDependencies)
			return func(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
				uriValues := issueResourceURITemplate.Match(request.Params.URI)
				if uriValues == nil {
					return nil, fmt.Errorf("failed to match URI: %s", request.Params.URI)
				}
				issueID := uriValues.Get("issueId").String()
				if issueID == "" {
					return nil, errors.New("issue ID is required")
				}

				client, err := d.GetClient(ctx)
				if err != nil {
					return nil, fmt.Errorf("failed to get Linear client: %w", err)
				}
				issue, err := client.GetIssue(ctx, issueID)
				if err != nil {
					return nil, fmt.Errorf("failed to get issue: %w", err)
				}
				return jsonResourceResult(request.Params.URI, issue)
			}
		},
	)
}

// TeamIssuesResource defines the resource template for a team's issues.
func TeamIssuesResource(t translations.TranslationHelperFunc) inventory.ServerResourceTemplate {
	return inventory.NewServerResourceTemplate(
		ToolsetMetadataIssues,
		mcp.ResourceTemplate{
			Name:        "team_issues",
			URITemplate: teamIssuesResourceURITemplate.Raw(),
			Description: t("RESOURCE_TEAM_ISSUES_DESCRIPTION", "Issues belonging to a Linear team"),
			MIMEType:    "application/json",
		},
		func(deps any) mcp.ResourceHandler {
			d := deps.(ToolDependencies)
			return func(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
				uriValues := teamIssuesResourceURITemplate.Match(request.Params.URI)
				if uriValues == nil {
					return nil, fmt.Errorf("failed to match URI: %s", request.Params.URI)
				}
				teamID := uriValues.Get("teamId").String()
				if teamID == "" {
					return nil, errors.New("team ID is required")
				}

				client, err := d.GetClient(ctx)
				if err != nil {
					return nil, fmt.Errorf("failed to get Linear client: %w", err)
				}
				issues, err := client.TeamIssues(ctx, teamID)
				if err != nil {
					return nil, fmt.Errorf("failed to get team issues: %w", err)
				}
				return jsonResourceResult(request.Params.URI, issues)
			}
		},
	)
}

// UserAssignedIssuesResource defines the resource template for a user's
// assigned issues. The special user ID "me" targets the authenticated user.
func UserAssignedIssuesResource(t translations.TranslationHelperFunc) inventory.ServerResourceTemplate {
	return inventory.NewServerResourceTemplate(
		ToolsetMetadataIssues,
		mcp.ResourceTemplate{
			Name:        "user_assigned_issues",
			URITemplate: userIssuesResourceURITemplate.Raw(),
			Description: t("RESOURCE_USER_ASSIGNED_ISSUES_DESCRIPTION", "Issues assigned to a Linear user; use 'me' for the authenticated user"),
			MIMEType:    "application/json",
		},
		func(deps any) mcp.ResourceHandler {
			d := deps.(ToolDependencies)
			return func(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
				uriValues := userIssuesResourceURITemplate.Match(request.Params.URI)
				if uriValues == nil {
					return nil, fmt.Errorf("failed to match URI: %s", request.Params.URI)
				}
				userID := uriValues.Get("userId").String()
				if userID == "" {
					return nil, errors.New("user ID is required")
				}
				if userID == "me" {
					userID = ""
				}

				client, err := d.GetClient(ctx)
				if err != nil {
					return nil, fmt.Errorf("failed to get Linear client: %w", err)
				}
				issues, err := client.UserIssues(ctx, linearapi.UserIssuesParams{
					UserID: userID,
					Limit:  50,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to get assigned issues: %w", err)
				}
				return jsonResourceResult(request.Params.URI, issues)
			}
		},
	)
}

// OrganizationResource defines the resource for the Linear organization.
func OrganizationResource(t translations.TranslationHelperFunc) inventory.ServerResourceTemplate {
	return inventory.NewServerResourceTemplate(
		ToolsetMetadataContext,
		mcp.ResourceTemplate{
			Name:        "organization",
			URITemplate: organizationResourceURITemplate.Raw(),
			Description: t("RESOURCE_ORGANIZATION_DESCRIPTION", "The Linear organization with its teams and members"),
			MIMEType:    "application/json",
		},
		func(deps any) mcp.ResourceHandler {
			d := deps.(ToolDependencies)
			return func(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
				client, err := d.GetClient(ctx)
				if err != nil {
					return nil, fmt.Errorf("failed to get Linear client: %w", err)
				}
				org, err := client.Organization(ctx)
				if err != nil {
					return nil, fmt.Errorf("failed to get organization: %w", err)
				}
				return jsonResourceResult(request.Params.URI, org)
			}
		},
	)
}

// ViewerResource defines the resource for the authenticated user.
func ViewerResource(t translations.TranslationHelperFunc) inventory.ServerResourceTemplate {
	return inventory.NewServerResourceTemplate(
		ToolsetMetadataContext,
		mcp.ResourceTemplate{
			Name:        "viewer",
			URITemplate: viewerResourceURITemplate.Raw(),
			Description: t("RESOURCE_VIEWER_DESCRIPTION", "The authenticated Linear user"),
			MIMEType:    "application/json",
		},
		func(deps any) mcp.ResourceHandler {
			d := deps.(ToolDependencies)
			return func(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
				client, err := d.GetClient(ctx)
				if err != nil {
					return nil, fmt.Errorf("failed to get Linear client: %w", err)
				}
				viewer, err := client.Viewer(ctx)
				if err != nil {
					return nil, fmt.Errorf("failed to get viewer: %w", err)
				}
				return jsonResourceResult(request.Params.URI, viewer)
			}
		},
	)
}

// jsonResourceResult marshals v and wraps it as a JSON resource payload.
func jsonResourceResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource payload: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
