// Package tools provides the tool system exposed to AI agents: tool
// definitions, structured results, a registry and a policy-enforcing executor.
package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool wraps an MCP tool with execution logic and metadata.
type Tool struct {
	mcp.Tool // Name, Description, InputSchema

	Type  ToolType // builtin
	Group string   // group:fs, etc.

	Execute func(ctx context.Context, input map[string]any) (*Result, error)
}

// ToolType categorizes tools by their execution model.
type ToolType string

// ToolTypeBuiltin are tools implemented in-process.
const ToolTypeBuiltin ToolType = "builtin"

// Result is the structured outcome of a tool call. Failures are reported as
// results with status error, never as Go errors.
type Result struct {
	Status  ResultStatus   `json:"status"`            // success, error
	Content []ContentBlock `json:"content,omitempty"` // text blocks
	Details map[string]any `json:"details,omitempty"` // Structured metadata for parsing
	Error   string         `json:"error,omitempty"`
}

// Text returns the first text block, or the error message if status is error.
func (r *Result) Text() string {
	if r.Status == ResultError && r.Error != "" {
		return r.Error
	}
	for _, block := range r.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text
		}
	}
	return ""
}

// ContentBlock is a single piece of tool output.
type ContentBlock struct {
	Type string `json:"type"`           // "text"
	Text string `json:"text,omitempty"` // For text blocks
}

// ResultStatus indicates the outcome of tool execution.
type ResultStatus string

const (
	// ResultSuccess indicates the tool completed successfully.
	ResultSuccess ResultStatus = "success"
	// ResultError indicates the tool failed with an error.
	ResultError ResultStatus = "error"
)

// ToolInfo provides metadata about a tool for listing.
type ToolInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        ToolType `json:"type"`
	Group       string   `json:"group,omitempty"`
	Enabled     bool     `json:"enabled"`
}
