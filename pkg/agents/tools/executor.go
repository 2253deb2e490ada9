package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/beeper/ai-pptx/pkg/aiid"
)

// Policy defines which tools are allowed or denied.
type Policy struct {
	Allowed  map[string]bool // Explicitly allowed tools
	Denied   map[string]bool // Explicitly denied tools
	AllowAll bool            // If true, allow all tools except denied
}

// NewPolicy creates a new empty policy. Nothing is allowed until Allow or
// AllowGroup is called.
func NewPolicy() *Policy {
	return &Policy{
		Allowed: make(map[string]bool),
		Denied:  make(map[string]bool),
	}
}

// AllowAllPolicy creates a policy that allows all tools.
func AllowAllPolicy() *Policy {
	p := NewPolicy()
	p.AllowAll = true
	return p
}

// Allow explicitly allows a tool.
func (p *Policy) Allow(name string) *Policy {
	p.Allowed[name] = true
	delete(p.Denied, name)
	return p
}

// Deny explicitly denies a tool.
func (p *Policy) Deny(name string) *Policy {
	p.Denied[name] = true
	delete(p.Allowed, name)
	return p
}

// AllowGroup allows all tools in a group.
func (p *Policy) AllowGroup(registry *Registry, group string) *Policy {
	for _, name := range registry.ToolsInGroup(group) {
		p.Allow(name)
	}
	return p
}

// IsAllowed checks if a tool is allowed by this policy.
func (p *Policy) IsAllowed(name string) bool {
	// Explicit deny takes precedence
	if p.Denied[name] {
		return false
	}
	if p.Allowed[name] {
		return true
	}
	return p.AllowAll
}

// Executor handles tool execution with policy enforcement.
type Executor struct {
	registry *Registry
	policy   *Policy
	guard    *Guard
}

// NewExecutor creates a new executor with the given registry and policy.
func NewExecutor(registry *Registry, policy *Policy) *Executor {
	if policy == nil {
		policy = AllowAllPolicy()
	}
	return &Executor{
		registry: registry,
		policy:   policy,
		guard:    DefaultGuard(),
	}
}

// Execute runs a tool if allowed by policy. Unknown or disallowed tools are
// Go errors; everything that happens inside a tool is reported as a Result.
func (e *Executor) Execute(ctx context.Context, name string, input map[string]any) (result *Result, err error) {
	tool := e.registry.Get(name)
	if tool == nil {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	name = tool.Name
	if !e.policy.IsAllowed(name) {
		return nil, fmt.Errorf("tool %s is not allowed by policy", name)
	}
	if tool.Execute == nil {
		return nil, fmt.Errorf("tool %s has no local executor", name)
	}
	if input == nil {
		input = map[string]any{}
	}
	if err := ValidateInput(input, tool.InputSchema); err != nil {
		res := ErrorResult(name, err.Error())
		res.Details["kind"] = KindInvalidArguments
		return res, nil
	}

	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().
				Str("tool_name", name).
				Interface("panic", r).
				Msg("Tool panicked")
			result, err = ErrorResultf(name, "tool %s failed unexpectedly", name), nil
		}
	}()
	return tool.Execute(ctx, input)
}

// ExecuteWithID runs a tool with call ID tracking via guard. An empty callID
// gets a fresh one.
func (e *Executor) ExecuteWithID(ctx context.Context, callID, name string, input map[string]any) (*Result, error) {
	if callID == "" {
		callID = aiid.MakeCallID()
	}
	for _, stale := range e.guard.CleanupStale() {
		zerolog.Ctx(ctx).Warn().
			Str("call_id", stale.CallID).
			Str("tool_name", stale.ToolName).
			Dur("pending_for", stale.Duration()).
			Msg("Dropped stale tool call")
	}
	if !e.guard.Register(callID, name) {
		return nil, fmt.Errorf("duplicate tool call: %s", callID)
	}
	log := zerolog.Ctx(ctx).With().
		Str("call_id", callID).
		Str("tool_name", name).
		Logger()
	ctx = log.WithContext(ctx)

	start := time.Now()
	result, err := e.Execute(ctx, name, input)
	e.guard.Complete(callID)

	evt := log.Debug()
	if err != nil {
		evt = log.Warn().Err(err)
	} else if result != nil && result.IsError() {
		evt = evt.Str("error", result.Error)
	}
	evt.Dur("duration", time.Since(start)).Msg("Tool call finished")
	return result, err
}

// CanExecute checks if a tool can be executed (exists and is allowed).
func (e *Executor) CanExecute(name string) bool {
	tool := e.registry.Get(name)
	if tool == nil {
		return false
	}
	return e.policy.IsAllowed(tool.Name)
}

// AllowedTools returns all tools that are allowed by the policy.
func (e *Executor) AllowedTools() []*Tool {
	var allowed []*Tool
	for _, tool := range e.registry.All() {
		if e.policy.IsAllowed(tool.Name) {
			allowed = append(allowed, tool)
		}
	}
	return allowed
}

// AllowedToolInfos returns info about allowed tools.
func (e *Executor) AllowedToolInfos() []ToolInfo {
	var infos []ToolInfo
	for _, tool := range e.AllowedTools() {
		infos = append(infos, ToolInfo{
			Name:        tool.Name,
			Description: tool.Description,
			Type:        tool.Type,
			Group:       tool.Group,
			Enabled:     true,
		})
	}
	return infos
}

// Registry returns the underlying registry.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Guard returns the underlying guard.
func (e *Executor) Guard() *Guard {
	return e.guard
}
