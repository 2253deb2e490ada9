// Package mcpserver exposes the tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/beeper/ai-pptx/pkg/agents/tools"
)

// New creates an MCP server advertising every tool the executor's policy
// allows. Aliases are accepted by the executor but not advertised.
func New(executor *tools.Executor, info *mcp.Implementation) *mcp.Server {
	server := mcp.NewServer(info, nil)
	server.AddReceivingMiddleware(loggingMiddleware())
	for _, tool := range executor.AllowedTools() {
		def := tool.Tool
		server.AddTool(&def, toolHandler(executor, tool.Name))
	}
	return server
}

// Serve runs server over stdin/stdout until the client disconnects or ctx is
// cancelled.
func Serve(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func toolHandler(executor *tools.Executor, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if raw := req.Params.Arguments; len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
		}
		result, err := executor.ExecuteWithID(ctx, "", name, args)
		if err != nil {
			return nil, err
		}
		return convertResult(result), nil
	}
}

func convertResult(result *tools.Result) *mcp.CallToolResult {
	if result == nil {
		return errorResult("tool returned no result")
	}
	resp := result.Response()
	text := resp.Output
	if !resp.Success {
		text = *resp.Error
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: text}},
		StructuredContent: resp,
		IsError:           !resp.Success,
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return convertResult(tools.ErrorResult("mcp", message))
}

func loggingMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)
			evt := zerolog.Ctx(ctx).Debug()
			if err != nil {
				evt = zerolog.Ctx(ctx).Warn().Err(err)
			}
			evt.Str("method", method).
				Dur("duration", time.Since(start)).
				Msg("Handled MCP request")
			return result, err
		}
	}
}
