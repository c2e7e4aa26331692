package linearmcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/linearapp/linear-mcp-server/pkg/linear"
	"github.com/linearapp/linear-mcp-server/pkg/linearapi"
	"github.com/linearapp/linear-mcp-server/pkg/translations"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPServerConfig holds everything needed to construct a Linear MCP server.
type MCPServerConfig struct {
	// Version of the server
	Version string

	// APIBaseURL overrides the Linear GraphQL endpoint. Empty means the
	// public endpoint.
	APIBaseURL string

	// APIKey is the Linear API key the server authenticates with
	APIKey string

	// EnabledToolsets is a list of toolset IDs to enable. nil means the
	// default toolsets; the keywords "all" and "default" are honored.
	EnabledToolsets []string

	// EnabledTools is a list of individual tool names to enable. When set
	// without EnabledToolsets, no toolsets are enabled by default.
	EnabledTools []string

	// ReadOnly drops every tool that can mutate Linear state
	ReadOnly bool

	// Translator provides translated tool and resource descriptions
	Translator translations.TranslationHelperFunc
}

// resolveEnabledToolsets works out which toolsets the inventory should
// enable. nil means "use defaults"; an empty slice means none, which is
// what callers get when they pick individual tools without naming toolsets.
func resolveEnabledToolsets(cfg MCPServerConfig) []string {
	if cfg.EnabledToolsets == nil {
		if len(cfg.EnabledTools) > 0 {
			return []string{}
		}
		return nil
	}
	return cfg.EnabledToolsets
}

// NewMCPServer builds the MCP server with its full inventory registered and
// the dependency injection middleware installed.
func NewMCPServer(cfg MCPServerConfig) (*mcp.Server, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("linear API key is required")
	}

	var clientOpts []linearapi.ClientOption
	if cfg.APIBaseURL != "" {
		clientOpts = append(clientOpts, linearapi.WithEndpoint(cfg.APIBaseURL))
	}
	client := linearapi.NewClient(cfg.APIKey, clientOpts...)

	translator := cfg.Translator
	if translator == nil {
		translator = translations.NullTranslationHelper
	}

	inv := linear.DefaultInventory(translator).
		WithReadOnly(cfg.ReadOnly).
		WithToolsets(resolveEnabledToolsets(cfg)).
		WithTools(cfg.EnabledTools).
		Build()

	server := linear.NewServer(cfg.Version, &mcp.ServerOptions{
		Instructions: linear.GenerateInstructions(inv.EnabledToolsetIDs()),
	})

	deps := linear.NewBaseDeps(client, translator)

	// Deps ride the context so tool handlers stay closure-free. The local
	// server injects the same deps for every request.
	server.AddReceivingMiddleware(func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			ctx = linear.ContextWithDeps(ctx, deps)
			return next(ctx, method, req)
		}
	})

	inv.RegisterAll(server, deps)

	return server, nil
}

// StdioServerConfig configures RunStdioServer.
type StdioServerConfig struct {
	// Version of the server
	Version string

	// APIBaseURL overrides the Linear GraphQL endpoint
	APIBaseURL string

	// APIKey is the Linear API key the server authenticates with
	APIKey string

	// EnabledToolsets is a list of toolset IDs to enable
	EnabledToolsets []string

	// EnabledTools is a list of individual tool names to enable
	EnabledTools []string

	// ReadOnly drops every tool that can mutate Linear state
	ReadOnly bool

	// ExportTranslations writes the collected description keys to
	// linear-mcp-server-config.json on shutdown, producing the override
	// template.
	ExportTranslations bool

	// LogFilePath is an optional path for the server log. Empty logs to stderr.
	LogFilePath string
}

// RunStdioServer starts the server on stdin/stdout and blocks until the
// client disconnects or the process receives SIGTERM or SIGINT.
func RunStdioServer(cfg StdioServerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, dumpTranslations := translations.TranslationHelper()
	if cfg.ExportTranslations {
		defer dumpTranslations()
	}

	server, err := NewMCPServer(MCPServerConfig{
		Version:         cfg.Version,
		APIBaseURL:      cfg.APIBaseURL,
		APIKey:          cfg.APIKey,
		EnabledToolsets: cfg.EnabledToolsets,
		EnabledTools:    cfg.EnabledTools,
		ReadOnly:        cfg.ReadOnly,
		Translator:      t,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	logger, closeLogger, err := newLogger(cfg.LogFilePath)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer closeLogger()

	logger.Info("starting server", "version", cfg.Version, "read_only", cfg.ReadOnly)

	errC := make(chan error, 1)
	go func() {
		errC <- server.Run(ctx, &mcp.StdioTransport{})
	}()

	// Output to stderr so it doesn't interfere with the MCP protocol on stdout
	_, _ = fmt.Fprintf(os.Stderr, "Linear MCP Server running on stdio\n")

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
		return nil
	case err := <-errC:
		if err != nil && ctx.Err() == nil {
			logger.Error("server error", "error", err)
			return fmt.Errorf("error running server: %w", err)
		}
		return nil
	}
}

// newLogger returns a structured logger writing to the given file, or to
// stderr when the path is empty. Logging never goes to stdout, which
// belongs to the protocol.
func newLogger(outPath string) (*slog.Logger, func(), error) {
	if outPath == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, nil)), func() {}, nil
	}

	file, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600) // #nosec G302
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	handler := slog.NewTextHandler(io.Writer(file), nil)
	return slog.New(handler), func() { _ = file.Close() }, nil
}
