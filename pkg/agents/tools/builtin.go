package tools

import (
	"github.com/beeper/ai-pptx/pkg/shared/toolspec"
)

// Tool group constants for policy composition.
const (
	GroupFS = "group:fs"
)

// BuiltinTools returns all locally-executable builtin tools.
func BuiltinTools(reader *PptxReader) []*Tool {
	return []*Tool{
		PptxReadTool(reader),
	}
}

// BuiltinRegistry returns a registry with the builtin tools and their
// aliases registered.
func BuiltinRegistry(reader *PptxReader) *Registry {
	reg := NewRegistry()
	for _, tool := range BuiltinTools(reader) {
		// Names are unique by construction.
		_ = reg.Register(tool)
	}
	for _, alias := range toolspec.PptxReadAliases {
		_ = reg.RegisterAlias(alias, toolspec.PptxReadName)
	}
	return reg
}
