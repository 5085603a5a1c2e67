package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/alangould92/fareway-database-mcp/internal/buildinfo"
	"github.com/alangould92/fareway-database-mcp/internal/engine"
	"github.com/alangould92/fareway-database-mcp/internal/registry"
)

type MCPServerOptions struct {
	Registry *registry.Registry
	Engine   *engine.Engine
	Logger   *zap.Logger
	// RequestTimeout bounds each tool execution; zero disables the deadline.
	RequestTimeout time.Duration
}

// NewMCPServer builds the session-protocol adapter: one MCP server with the
// full catalogue registered. Tool-level failures set IsError on the reply;
// the session itself stays open.
func NewMCPServer(opts MCPServerOptions) *mcp.Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("mcp")

	server := mcp.NewServer(&mcp.Implementation{
		Name:    buildinfo.ServerName,
		Version: buildinfo.Version,
	}, &mcp.ServerOptions{
		HasTools: true,
	})

	for _, def := range opts.Registry.List() {
		tool := &mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema.JSONSchema(),
		}
		server.AddTool(tool, toolHandler(opts, logger, def.Name))
	}
	return server
}

func toolHandler(opts MCPServerOptions, logger *zap.Logger, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var rawArgs map[string]any
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &rawArgs); err != nil {
				return errorResult(fmt.Sprintf("malformed arguments: %v", err)), nil
			}
		}
		if rawArgs == nil {
			rawArgs = map[string]any{}
		}

		if opts.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.RequestTimeout)
			defer cancel()
		}

		result := opts.Engine.Execute(ctx, name, rawArgs)
		payload, err := json.Marshal(result)
		if err != nil {
			logger.Error("encode tool result failed", zap.String("tool", name), zap.Error(err))
			return errorResult("internal error encoding result"), nil
		}
		return &mcp.CallToolResult{
			IsError:           !result.Success,
			Content:           []mcp.Content{&mcp.TextContent{Text: string(payload)}},
			StructuredContent: result,
		}, nil
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

// NewStreamableHTTPHandler exposes the MCP server over streamable HTTP so the
// API listener can mount it behind auth and rate limiting.
func NewStreamableHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
