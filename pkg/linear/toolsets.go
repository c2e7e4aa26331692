package linear

import (
	"github.com/linearapp/linear-mcp-server/pkg/inventory"
	"github.com/linearapp/linear-mcp-server/pkg/translations"
)

// Toolset IDs
const (
	ToolsetIDIssues  inventory.ToolsetID = "issues"
	ToolsetIDContext inventory.ToolsetID = "context"
)

// ToolsetMetadataIssues covers issue and comment reads and writes.
var ToolsetMetadataIssues = inventory.ToolsetMetadata{
	ID:          ToolsetIDIssues,
	Description: "Linear issue management: create, update, search and comment on issues",
	Default:     true,
}

// ToolsetMetadataContext covers the authenticated user and their organization.
var ToolsetMetadataContext = inventory.ToolsetMetadata{
	ID:          ToolsetIDContext,
	Description: "Information about the authenticated user and the Linear organization",
	Default:     true,
}

// DefaultInventory returns a builder preloaded with the full tool, resource
// and prompt inventory of the server. Callers apply read-only and toolset
// filtering before Build.
func DefaultInventory(t translations.TranslationHelperFunc) *inventory.Builder {
	return inventory.NewBuilder().
		SetTools(AllTools(t)).
		SetResources(AllResources(t)).
		SetPrompts(AllPrompts(t))
}

// AllTools returns every tool the server can expose.
func AllTools(t translations.TranslationHelperFunc) []inventory.ServerTool {
	return []inventory.ServerTool{
		// Issues
		CreateIssue(t),
		UpdateIssue(t),
		SearchIssues(t),
		GetUserIssues(t),
		ListIssues(t),

		// Comments
		AddComment(t),
	}
}

// AllResources returns every resource template the server can expose.
func AllResources(t translations.TranslationHelperFunc) []inventory.ServerResourceTemplate {
	return []inventory.ServerResourceTemplate{
		IssueResource(t),
		TeamIssuesResource(t),
		UserAssignedIssuesResource(t),
		OrganizationResource(t),
		ViewerResource(t),
	}
}

// AllPrompts returns every prompt the server can expose.
func AllPrompts(t translations.TranslationHelperFunc) []inventory.ServerPrompt {
	return []inventory.ServerPrompt{
		UsagePrompt(t),
	}
}
