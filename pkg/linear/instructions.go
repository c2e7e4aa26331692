package linear

import (
	"os"
	"slices"
	"strings"

	"github.com/linearapp/linear-mcp-server/pkg/inventory"
)

// GenerateInstructions creates server instructions based on enabled toolsets
func GenerateInstructions(enabledToolsets []inventory.ToolsetID) string {
	// For testing - add a flag to disable instructions
	if os.Getenv("DISABLE_INSTRUCTIONS") == "true" {
		return "" // Baseline mode
	}

	baseInstruction := `The Linear MCP Server provides tools to manage issues in Linear.

Tool selection guidance:
	1. Use 'linear_list_issues' for broad retrieval of recent issues across the workspace.
	2. Use 'linear_search_issues' for targeted queries with text, team, status, assignee, label or priority filters.

Identifier guidance:
	1. Team IDs come from the linear-organization: resource; team keys (e.g. 'ENG') are accepted wherever a team is filtered.
	2. Issue IDs come from search results or linear-issue:/// resources.`

	instructions := []string{baseInstruction}

	if slices.Contains(enabledToolsets, ToolsetIDContext) {
		instructions = append(instructions, "Read the linear-viewer: resource first to understand the authenticated user and their teams.")
	}
	if slices.Contains(enabledToolsets, ToolsetIDIssues) {
		instructions = append(instructions, `## Issues

Search with 'linear_search_issues' before creating new issues to avoid duplicates. Status values must match the team's workflow state names exactly (e.g. "In Progress"). Priority runs from 1 (urgent) to 4 (low); 0 means no priority.`)
	}

	return strings.Join(instructions, " ")
}
