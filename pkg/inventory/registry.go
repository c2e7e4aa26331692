package inventory

import (
	"slices"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Inventory holds a collection of tools, resources, and prompts with
// filtering applied. Create one with Builder:
//
//	inv := NewBuilder().
//	    SetTools(tools).
//	    WithReadOnly(true).
//	    WithToolsets([]string{"issues"}).
//	    Build()
//
// The Inventory is configured at build time and provides filtered access to
// tools/resources/prompts via the Available* methods, deterministic ordering
// for documentation generation, and lazy dependency injection during
// registration via RegisterAll().
type Inventory struct {
	tools             []ServerTool
	resourceTemplates []ServerResourceTemplate
	prompts           []ServerPrompt

	// Pre-computed toolset metadata (set during Build)
	toolsetIDs          []ToolsetID
	toolsetIDSet        map[ToolsetID]bool
	defaultToolsetIDs   []ToolsetID
	toolsetDescriptions map[ToolsetID]string

	// readOnly when true filters out write tools
	readOnly bool
	// enabledToolsets when non-nil, only include items from these toolsets;
	// when nil, all toolsets are enabled
	enabledToolsets map[ToolsetID]bool
	// enabledTools holds individual tool names enabled on top of toolsets
	enabledTools map[string]bool
	// unrecognizedToolsets holds requested toolset IDs that matched nothing
	unrecognizedToolsets []string
}

// UnrecognizedToolsets returns toolset IDs that were passed to WithToolsets
// but don't match any registered toolsets. Useful for warning about typos.
func (r *Inventory) UnrecognizedToolsets() []string {
	return r.unrecognizedToolsets
}

// ToolsetIDs returns a sorted list of unique toolset IDs from all registered items.
func (r *Inventory) ToolsetIDs() []ToolsetID {
	return r.toolsetIDs
}

// DefaultToolsetIDs returns the IDs of toolsets marked as Default in their
// metadata, in sorted order.
func (r *Inventory) DefaultToolsetIDs() []ToolsetID {
	return r.defaultToolsetIDs
}

// EnabledToolsetIDs returns the toolset IDs that survive the configured
// filtering, in sorted order.
func (r *Inventory) EnabledToolsetIDs() []ToolsetID {
	ids := make([]ToolsetID, 0, len(r.toolsetIDs))
	for _, id := range r.toolsetIDs {
		if r.isToolsetEnabled(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// ToolsetDescriptions returns a map of toolset ID to description.
func (r *Inventory) ToolsetDescriptions() map[ToolsetID]string {
	return r.toolsetDescriptions
}

// HasToolset checks if any tool/resource/prompt belongs to the given toolset.
func (r *Inventory) HasToolset(toolsetID ToolsetID) bool {
	return r.toolsetIDSet[toolsetID]
}

func (r *Inventory) isToolsetEnabled(toolsetID ToolsetID) bool {
	if r.enabledToolsets != nil {
		return r.enabledToolsets[toolsetID]
	}
	return true
}

func (r *Inventory) isToolEnabled(tool *ServerTool) bool {
	if r.readOnly && !tool.IsReadOnly() {
		return false
	}
	if r.enabledTools[tool.Tool.Name] {
		return true
	}
	return r.isToolsetEnabled(tool.Toolset.ID)
}

// AllTools returns all tools without any filtering, sorted deterministically
// by toolset ID then tool name.
func (r *Inventory) AllTools() []ServerTool {
	result := slices.Clone(r.tools)

	sort.Slice(result, func(i, j int) bool {
		if result[i].Toolset.ID != result[j].Toolset.ID {
			return result[i].Toolset.ID < result[j].Toolset.ID
		}
		return result[i].Tool.Name < result[j].Tool.Name
	})

	return result
}

// AvailableTools returns the tools that pass the configured filters, sorted
// deterministically.
func (r *Inventory) AvailableTools() []ServerTool {
	var result []ServerTool
	for _, tool := range r.AllTools() {
		if r.isToolEnabled(&tool) {
			result = append(result, tool)
		}
	}
	return result
}

// AvailableResourceTemplates returns the resource templates from enabled toolsets.
func (r *Inventory) AvailableResourceTemplates() []ServerResourceTemplate {
	var result []ServerResourceTemplate
	for _, res := range r.resourceTemplates {
		if r.isToolsetEnabled(res.Toolset.ID) {
			result = append(result, res)
		}
	}
	return result
}

// AvailablePrompts returns the prompts from enabled toolsets.
func (r *Inventory) AvailablePrompts() []ServerPrompt {
	var result []ServerPrompt
	for _, prompt := range r.prompts {
		if r.isToolsetEnabled(prompt.Toolset.ID) {
			result = append(result, prompt)
		}
	}
	return result
}

// FindToolByName searches all tools for one matching the given name,
// regardless of filters. Returns the tool, its toolset ID, and an error when
// not found.
func (r *Inventory) FindToolByName(toolName string) (*ServerTool, ToolsetID, error) {
	for i := range r.tools {
		if r.tools[i].Tool.Name == toolName {
			return &r.tools[i], r.tools[i].Toolset.ID, nil
		}
	}
	return nil, "", NewToolDoesNotExistError(toolName)
}

// RegisterTools registers all available tools with the server using the
// provided dependencies.
func (r *Inventory) RegisterTools(s *mcp.Server, deps any) {
	for _, tool := range r.AvailableTools() {
		tool.RegisterFunc(s, deps)
	}
}

// RegisterResourceTemplates registers all available resource templates with the server.
func (r *Inventory) RegisterResourceTemplates(s *mcp.Server, deps any) {
	for _, res := range r.AvailableResourceTemplates() {
		templateCopy := res.Template
		s.AddResourceTemplate(&templateCopy, res.Handler(deps))
	}
}

// RegisterPrompts registers all available prompts with the server.
func (r *Inventory) RegisterPrompts(s *mcp.Server) {
	for _, prompt := range r.AvailablePrompts() {
		promptCopy := prompt.Prompt
		s.AddPrompt(&promptCopy, prompt.Handler)
	}
}

// RegisterAll registers all available tools, resources, and prompts with the server.
func (r *Inventory) RegisterAll(s *mcp.Server, deps any) {
	r.RegisterTools(s, deps)
	r.RegisterResourceTemplates(s, deps)
	r.RegisterPrompts(s)
}
