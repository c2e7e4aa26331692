package inventory

import (
	"sort"
	"strings"
)

// Builder builds an Inventory with the specified configuration.
// Use NewBuilder to create a builder, chain configuration methods, then call
// Build() to create the final inventory.
//
// Example:
//
//	inv := NewBuilder().
//	    SetTools(tools).
//	    SetResources(resources).
//	    SetPrompts(prompts).
//	    WithReadOnly(true).
//	    WithToolsets([]string{"issues"}).
//	    Build()
type Builder struct {
	tools             []ServerTool
	resourceTemplates []ServerResourceTemplate
	prompts           []ServerPrompt

	readOnly        bool
	toolsetIDs      []string // raw input, processed at Build()
	toolsetIDsIsNil bool     // tracks if nil was passed (nil = defaults)
	toolNames       []string // individual tools enabled on top of toolsets
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		toolsetIDsIsNil: true, // default to nil (use defaults)
	}
}

// SetTools sets the tools for the inventory. Returns self for chaining.
func (b *Builder) SetTools(tools []ServerTool) *Builder {
	b.tools = tools
	return b
}

// SetResources sets the resource templates for the inventory. Returns self for chaining.
func (b *Builder) SetResources(resources []ServerResourceTemplate) *Builder {
	b.resourceTemplates = resources
	return b
}

// SetPrompts sets the prompts for the inventory. Returns self for chaining.
func (b *Builder) SetPrompts(prompts []ServerPrompt) *Builder {
	b.prompts = prompts
	return b
}

// WithReadOnly sets whether only read-only tools should be available.
// When true, write tools are filtered out. Returns self for chaining.
func (b *Builder) WithReadOnly(readOnly bool) *Builder {
	b.readOnly = readOnly
	return b
}

// WithTools specifies individual tools to enable regardless of whether
// their toolset is enabled. Pass nil for no tool-level additions.
// Returns self for chaining.
func (b *Builder) WithTools(toolNames []string) *Builder {
	b.toolNames = toolNames
	return b
}

// WithToolsets specifies which toolsets should be enabled.
// Special keywords:
//   - "all": enables all toolsets
//   - "default": expands to toolsets marked with Default: true in their metadata
//
// Input strings are trimmed of whitespace and duplicates are removed.
// Pass nil to use default toolsets. Returns self for chaining.
func (b *Builder) WithToolsets(toolsetIDs []string) *Builder {
	b.toolsetIDs = toolsetIDs
	b.toolsetIDsIsNil = toolsetIDs == nil
	return b
}

// Build creates the final Inventory with all configuration applied.
func (b *Builder) Build() *Inventory {
	r := &Inventory{
		tools:             b.tools,
		resourceTemplates: b.resourceTemplates,
		prompts:           b.prompts,
		readOnly:          b.readOnly,
	}

	r.toolsetIDs, r.toolsetIDSet, r.defaultToolsetIDs, r.toolsetDescriptions = b.collectToolsets()
	r.enabledToolsets, r.unrecognizedToolsets = b.resolveEnabledToolsets(r.toolsetIDSet, r.defaultToolsetIDs)

	if len(b.toolNames) > 0 {
		r.enabledTools = make(map[string]bool, len(b.toolNames))
		for _, name := range b.toolNames {
			name = strings.TrimSpace(name)
			if name != "" {
				r.enabledTools[name] = true
			}
		}
	}

	return r
}

// collectToolsets walks every registered item once and gathers toolset metadata.
func (b *Builder) collectToolsets() ([]ToolsetID, map[ToolsetID]bool, []ToolsetID, map[ToolsetID]string) {
	validIDs := make(map[ToolsetID]bool)
	defaultIDs := make(map[ToolsetID]bool)
	descriptions := make(map[ToolsetID]string)

	record := func(tm ToolsetMetadata) {
		validIDs[tm.ID] = true
		if tm.Default {
			defaultIDs[tm.ID] = true
		}
		if tm.Description != "" {
			descriptions[tm.ID] = tm.Description
		}
	}

	for i := range b.tools {
		record(b.tools[i].Toolset)
	}
	for i := range b.resourceTemplates {
		record(b.resourceTemplates[i].Toolset)
	}
	for i := range b.prompts {
		record(b.prompts[i].Toolset)
	}

	all := make([]ToolsetID, 0, len(validIDs))
	for id := range validIDs {
		all = append(all, id)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	defaults := make([]ToolsetID, 0, len(defaultIDs))
	for id := range defaultIDs {
		defaults = append(defaults, id)
	}
	sort.Slice(defaults, func(i, j int) bool { return defaults[i] < defaults[j] })

	return all, validIDs, defaults, descriptions
}

// resolveEnabledToolsets turns the raw toolset ID strings into the enabled
// set, expanding the "all" and "default" keywords. A nil result means all
// toolsets are enabled.
func (b *Builder) resolveEnabledToolsets(validIDs map[ToolsetID]bool, defaults []ToolsetID) (map[ToolsetID]bool, []string) {
	if b.toolsetIDsIsNil {
		// nil means "use defaults"
		enabled := make(map[ToolsetID]bool, len(defaults))
		for _, id := range defaults {
			enabled[id] = true
		}
		return enabled, nil
	}

	enabled := make(map[ToolsetID]bool)
	var unrecognized []string
	for _, raw := range b.toolsetIDs {
		name := strings.TrimSpace(raw)
		switch name {
		case "":
			continue
		case "all":
			return nil, nil
		case "default":
			for _, id := range defaults {
				enabled[id] = true
			}
		default:
			id := ToolsetID(name)
			if !validIDs[id] {
				unrecognized = append(unrecognized, name)
				continue
			}
			enabled[id] = true
		}
	}
	return enabled, unrecognized
}
