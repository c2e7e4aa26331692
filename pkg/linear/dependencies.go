package linear

import (
	"context"
	"errors"

	"github.com/linearapp/linear-mcp-server/pkg/inventory"
	"github.com/linearapp/linear-mcp-server/pkg/linearapi"
	"github.com/linearapp/linear-mcp-server/pkg/translations"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// depsContextKey is the context key for ToolDependencies.
// Using a private type prevents collisions with other packages.
type depsContextKey struct{}

// ErrDepsNotInContext is returned when ToolDependencies is not found in context.
var ErrDepsNotInContext = errors.New("ToolDependencies not found in context; use ContextWithDeps to inject")

// ContextWithDeps returns a new context with the ToolDependencies stored in it.
// Dependencies are injected at request time rather than at registration time,
// so handlers never capture clients in closures.
func ContextWithDeps(ctx context.Context, deps ToolDependencies) context.Context {
	return context.WithValue(ctx, depsContextKey{}, deps)
}

// DepsFromContext retrieves ToolDependencies from the context.
// Returns the deps and true if found, or nil and false if not present.
func DepsFromContext(ctx context.Context) (ToolDependencies, bool) {
	deps, ok := ctx.Value(depsContextKey{}).(ToolDependencies)
	return deps, ok
}

// MustDepsFromContext retrieves ToolDependencies from the context.
// Panics if deps are not found - use this in handlers where deps are required.
func MustDepsFromContext(ctx context.Context) ToolDependencies {
	deps, ok := DepsFromContext(ctx)
	if !ok {
		panic(ErrDepsNotInContext)
	}
	return deps
}

// ToolDependencies defines the interface for dependencies that tool handlers
// need. It is an interface so a per-request server can supply request-scoped
// clients while the local stdio server supplies one long-lived session.
type ToolDependencies interface {
	// GetClient returns a Linear GraphQL client session
	GetClient(ctx context.Context) (*linearapi.Client, error)

	// GetT returns the translation helper function
	GetT() translations.TranslationHelperFunc
}

// BaseDeps is the standard implementation of ToolDependencies for the local
// server. It holds one pre-created client session for the process lifetime.
type BaseDeps struct {
	Client *linearapi.Client
	T      translations.TranslationHelperFunc
}

// NewBaseDeps creates a BaseDeps with the provided client and translator.
func NewBaseDeps(client *linearapi.Client, t translations.TranslationHelperFunc) *BaseDeps {
	return &BaseDeps{Client: client, T: t}
}

// GetClient implements ToolDependencies.
func (d BaseDeps) GetClient(_ context.Context) (*linearapi.Client, error) {
	return d.Client, nil
}

// GetT implements ToolDependencies.
func (d BaseDeps) GetT() translations.TranslationHelperFunc { return d.T }

// NewTool creates a ServerTool that retrieves ToolDependencies from context
// at call time. Ensure ContextWithDeps is called to inject deps before any
// tool handlers are invoked.
func NewTool[In, Out any](toolset inventory.ToolsetMetadata, tool mcp.Tool, handler func(ctx context.Context, deps ToolDependencies, req *mcp.CallToolRequest, args In) (*mcp.CallToolResult, Out, error)) inventory.ServerTool {
	return inventory.NewServerToolWithContextHandler(tool, toolset, func(ctx context.Context, req *mcp.CallToolRequest, args In) (*mcp.CallToolResult, Out, error) {
		deps := MustDepsFromContext(ctx)
		return handler(ctx, deps, req, args)
	})
}

// NewToolFromHandler creates a ServerTool from a raw mcp.ToolHandler that
// retrieves ToolDependencies from context at call time.
func NewToolFromHandler(toolset inventory.ToolsetMetadata, tool mcp.Tool, handler func(ctx context.Context, deps ToolDependencies, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)) inventory.ServerTool {
	return inventory.NewServerToolWithRawContextHandler(tool, toolset, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deps := MustDepsFromContext(ctx)
		return handler(ctx, deps, req)
	})
}
