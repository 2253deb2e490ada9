package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func panicTool() *Tool {
	return &Tool{
		Tool: mcp.Tool{
			Name:        "explode",
			InputSchema: map[string]any{"type": "object"},
		},
		Type: ToolTypeBuiltin,
		Execute: func(ctx context.Context, input map[string]any) (*Result, error) {
			panic("kaboom")
		},
	}
}

func TestBuiltinRegistryAliases(t *testing.T) {
	reg := BuiltinRegistry(NewPptxReader(&fakePolicy{}, t.TempDir()))
	for _, name := range []string{"pptx_read", "read_pptx", "pptx"} {
		tool := reg.Get(name)
		if tool == nil || tool.Name != "pptx_read" {
			t.Fatalf("expected %s to resolve to pptx_read, got %+v", name, tool)
		}
	}
	if names := reg.ToolsInGroup(GroupFS); len(names) != 1 || names[0] != "pptx_read" {
		t.Fatalf("unexpected fs group: %v", names)
	}
	if err := reg.Register(PptxReadTool(nil)); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := reg.RegisterAlias("nope", "missing"); err == nil {
		t.Fatalf("expected alias to unknown tool to fail")
	}
}

func TestPolicy(t *testing.T) {
	reg := BuiltinRegistry(NewPptxReader(&fakePolicy{}, t.TempDir()))
	policy := NewPolicy()
	if policy.IsAllowed("pptx_read") {
		t.Fatalf("empty policy should deny")
	}
	policy.AllowGroup(reg, GroupFS)
	if !policy.IsAllowed("pptx_read") {
		t.Fatalf("group allow should allow pptx_read")
	}
	policy.Deny("pptx_read")
	if policy.IsAllowed("pptx_read") {
		t.Fatalf("deny should take precedence")
	}
	if !AllowAllPolicy().IsAllowed("anything") {
		t.Fatalf("allow-all policy should allow")
	}
}

func TestExecutorValidatesArguments(t *testing.T) {
	reader, _ := newSandboxReader(t)
	exec := NewExecutor(BuiltinRegistry(reader), nil)

	for _, input := range []map[string]any{nil, {"path": 42.0}, {"path": nil}} {
		res, err := exec.Execute(context.Background(), "pptx_read", input)
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		requireKind(t, res, KindInvalidArguments)
	}
}

func TestExecutorResolvesAliasesThroughPolicy(t *testing.T) {
	reader, _ := newSandboxReader(t)
	reg := BuiltinRegistry(reader)
	exec := NewExecutor(reg, NewPolicy().Allow("pptx_read"))
	if !exec.CanExecute("read_pptx") {
		t.Fatalf("alias should inherit the canonical tool's permission")
	}
	res, err := exec.Execute(context.Background(), "read_pptx", map[string]any{"path": "../x.pptx"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	requireKind(t, res, KindPathDenied)

	denied := NewExecutor(reg, NewPolicy())
	if _, err := denied.Execute(context.Background(), "pptx_read", map[string]any{"path": "x"}); err == nil {
		t.Fatalf("expected policy error")
	}
	if _, err := denied.Execute(context.Background(), "unknown", nil); err == nil {
		t.Fatalf("expected unknown tool error")
	}
	if infos := exec.AllowedToolInfos(); len(infos) != 1 || infos[0].Name != "pptx_read" || infos[0].Group != GroupFS {
		t.Fatalf("unexpected tool infos: %+v", infos)
	}
}

func TestExecutorRecoversPanics(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(panicTool()); err != nil {
		t.Fatalf("register: %v", err)
	}
	exec := NewExecutor(reg, nil)
	res, err := exec.ExecuteWithID(context.Background(), "", "explode", nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !res.IsError() || !strings.Contains(res.Error, "failed unexpectedly") {
		t.Fatalf("expected error result, got %+v", res)
	}
	if exec.Guard().PendingCount() != 0 {
		t.Fatalf("guard entry leaked after panic")
	}
}

func TestExecuteWithIDRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	started := make(chan struct{})
	release := make(chan struct{})
	err := reg.Register(&Tool{
		Tool: mcp.Tool{Name: "slow"},
		Execute: func(ctx context.Context, input map[string]any) (*Result, error) {
			close(started)
			<-release
			return TextResult("done"), nil
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	exec := NewExecutor(reg, nil)

	done := make(chan *Result, 1)
	go func() {
		res, _ := exec.ExecuteWithID(context.Background(), "call_1", "slow", nil)
		done <- res
	}()
	<-started
	if _, err := exec.ExecuteWithID(context.Background(), "call_1", "slow", nil); err == nil {
		t.Fatalf("expected duplicate call ID to be rejected")
	}
	close(release)
	select {
	case res := <-done:
		if res.Text() != "done" {
			t.Fatalf("unexpected result %q", res.Text())
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("slow tool never finished")
	}
}

func TestGuardCleanupStale(t *testing.T) {
	g := NewGuard(time.Millisecond)
	if !g.Register("a", "pptx_read") {
		t.Fatalf("register failed")
	}
	time.Sleep(5 * time.Millisecond)
	stale := g.CleanupStale()
	if len(stale) != 1 || stale[0].CallID != "a" {
		t.Fatalf("unexpected stale calls: %+v", stale)
	}
	if g.Complete("a") != nil {
		t.Fatalf("stale call should already be gone")
	}
}
