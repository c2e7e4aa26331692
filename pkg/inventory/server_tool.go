package inventory

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandlerFunc is a function that takes dependencies and returns an MCP tool
// handler. Tools are defined statically; handlers are generated on demand
// with the appropriate dependencies. The deps parameter is typed as `any` to
// avoid circular dependencies - callers define their own typed dependencies
// struct and type-assert as needed.
type HandlerFunc func(deps any) mcp.ToolHandler

// ToolsetID is a unique identifier for a toolset.
type ToolsetID string

// ToolsetMetadata contains metadata about the toolset a tool belongs to.
type ToolsetMetadata struct {
	// ID is the unique identifier for the toolset (e.g., "issues")
	ID ToolsetID
	// Description provides a human-readable description of the toolset
	Description string
	// Default indicates this toolset should be enabled by default
	Default bool
}

// ServerTool represents an MCP tool with its toolset metadata and a handler
// generator function. The tool definition is static; the handler is created
// when the tool is registered with a server. Read-only status is derived
// from Tool.Annotations.ReadOnlyHint.
type ServerTool struct {
	// Tool is the MCP tool definition containing name, description, schema, etc.
	Tool mcp.Tool

	// Toolset contains metadata about which toolset this tool belongs to.
	Toolset ToolsetMetadata

	// HandlerFunc generates the handler when given dependencies.
	HandlerFunc HandlerFunc
}

// IsReadOnly returns true if this tool is marked as read-only via annotations.
func (st *ServerTool) IsReadOnly() bool {
	return st.Tool.Annotations != nil && st.Tool.Annotations.ReadOnlyHint
}

// Handler returns a tool handler by calling HandlerFunc with the given
// dependencies. Panics if HandlerFunc is nil - all tools should have handlers.
func (st *ServerTool) Handler(deps any) mcp.ToolHandler {
	if st.HandlerFunc == nil {
		panic("HandlerFunc is nil for tool: " + st.Tool.Name)
	}
	return st.HandlerFunc(deps)
}

// RegisterFunc registers the tool with the server using the provided
// dependencies. A shallow copy of the tool is made to avoid mutating the
// original ServerTool.
func (st *ServerTool) RegisterFunc(s *mcp.Server, deps any) {
	handler := st.Handler(deps)
	toolCopy := st.Tool
	s.AddTool(&toolCopy, handler)
}

// NewServerToolWithContextHandler creates a ServerTool whose handler receives
// its dependencies via context rather than a closure created at registration
// time. Dependencies must be injected into the context before tool handlers
// are invoked.
func NewServerToolWithContextHandler[In any, Out any](tool mcp.Tool, toolset ToolsetMetadata, handler mcp.ToolHandlerFor[In, Out]) ServerTool {
	return ServerTool{
		Tool:    tool,
		Toolset: toolset,
		// HandlerFunc ignores deps - deps are retrieved from context at call time
		HandlerFunc: func(_ any) mcp.ToolHandler {
			return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				var arguments In
				if err := json.Unmarshal(req.Params.Arguments, &arguments); err != nil {
					return nil, err
				}
				resp, _, err := handler(ctx, req, arguments)
				return resp, err
			}
		},
	}
}

// NewServerToolWithRawContextHandler creates a ServerTool from a handler that
// already conforms to mcp.ToolHandler. Like the typed variant, dependencies
// are retrieved from context at call time rather than captured in a closure.
func NewServerToolWithRawContextHandler(tool mcp.Tool, toolset ToolsetMetadata, handler mcp.ToolHandler) ServerTool {
	return ServerTool{
		Tool:    tool,
		Toolset: toolset,
		// HandlerFunc ignores deps - deps are retrieved from context at call time
		HandlerFunc: func(_ any) mcp.ToolHandler {
			return handler
		},
	}
}
