package tools

import (
	"sync"
	"time"
)

// Guard tracks in-flight tool calls so a call ID is never executed twice
// concurrently.
type Guard struct {
	mu      sync.Mutex
	pending map[string]*PendingCall // callID -> pending call info
	timeout time.Duration
}

// PendingCall is a tool call that has started but not completed.
type PendingCall struct {
	CallID    string
	ToolName  string
	StartedAt time.Time
}

// NewGuard creates a new guard with the specified timeout.
func NewGuard(timeout time.Duration) *Guard {
	return &Guard{
		pending: make(map[string]*PendingCall),
		timeout: timeout,
	}
}

// DefaultGuard creates a guard with a 5-minute timeout.
func DefaultGuard() *Guard {
	return NewGuard(5 * time.Minute)
}

// Register marks a tool call as pending.
// Returns false if the call ID is already registered (duplicate).
func (g *Guard) Register(callID, toolName string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.pending[callID]; exists {
		return false
	}
	g.pending[callID] = &PendingCall{
		CallID:    callID,
		ToolName:  toolName,
		StartedAt: time.Now(),
	}
	return true
}

// Complete marks a tool call as done and returns the pending call info.
// Returns nil if the call was not registered or already completed.
func (g *Guard) Complete(callID string) *PendingCall {
	g.mu.Lock()
	defer g.mu.Unlock()

	call := g.pending[callID]
	delete(g.pending, callID)
	return call
}

// PendingCount returns the number of pending calls.
func (g *Guard) PendingCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// CleanupStale removes calls that have exceeded the timeout.
func (g *Guard) CleanupStale() []*PendingCall {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	var stale []*PendingCall
	for callID, call := range g.pending {
		if now.Sub(call.StartedAt) > g.timeout {
			stale = append(stale, call)
			delete(g.pending, callID)
		}
	}
	return stale
}

// Duration returns how long a call has been pending.
func (p *PendingCall) Duration() time.Duration {
	return time.Since(p.StartedAt)
}
