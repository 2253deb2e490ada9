package tools

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages available tools with grouping and aliasing support.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]*Tool    // name -> tool
	groups  map[string][]string // group name -> tool names
	aliases map[string]string   // alias -> canonical name
}

// NewRegistry creates a new tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]*Tool),
		groups:  make(map[string][]string),
		aliases: make(map[string]string),
	}
}

// Register adds a tool to the registry. Names must be unique.
func (r *Registry) Register(tool *Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name
	if name == "" {
		return fmt.Errorf("tool has no name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s is already registered", name)
	}
	r.tools[name] = tool
	if tool.Group != "" {
		r.groups[tool.Group] = append(r.groups[tool.Group], name)
	}
	return nil
}

// RegisterAlias creates an alias for a tool (e.g., "read_pptx" -> "pptx_read").
func (r *Registry) RegisterAlias(alias, canonical string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[canonical]; !exists {
		return fmt.Errorf("alias %s points at unknown tool %s", alias, canonical)
	}
	r.aliases[alias] = canonical
	return nil
}

// Resolve returns the canonical name for name, following aliases.
func (r *Registry) Resolve(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if canonical, ok := r.aliases[name]; ok {
		return canonical
	}
	return name
}

// Get retrieves a tool by name, resolving aliases.
func (r *Registry) Get(name string) *Tool {
	name = r.Resolve(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// All returns all registered tools sorted by name.
func (r *Registry) All() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]*Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})
	return tools
}

// ToolsInGroup returns tool names in a group.
func (r *Registry) ToolsInGroup(group string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.groups[group]
	if names == nil {
		return nil
	}
	result := make([]string, len(names))
	copy(result, names)
	return result
}
