package security

import (
	"slices"
	"sync"
	"time"
)

// ActionTracker counts actions in a sliding window and against a budget that
// is only cleared by ResetBudget.
type ActionTracker struct {
	mu         sync.Mutex
	window     time.Duration
	actions    []time.Time
	budgetUsed int
	now        func() time.Time
}

func NewActionTracker(window time.Duration) *ActionTracker {
	if window <= 0 {
		window = time.Hour
	}
	return &ActionTracker{window: window, now: time.Now}
}

// prune drops actions older than the window. Caller holds mu.
func (t *ActionTracker) prune(now time.Time) {
	cutoff := now.Add(-t.window)
	keep := 0
	for keep < len(t.actions) && !t.actions[keep].After(cutoff) {
		keep++
	}
	if keep > 0 {
		t.actions = append(t.actions[:0], t.actions[keep:]...)
	}
}

// Record counts one action and returns the window count and budget usage
// including it.
func (t *ActionTracker) Record() (windowCount, budgetUsed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.prune(now)
	t.actions = append(t.actions, now)
	t.budgetUsed++
	return len(t.actions), t.budgetUsed
}

// Count returns the number of actions in the current window.
func (t *ActionTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune(t.now())
	return len(t.actions)
}

func (t *ActionTracker) BudgetUsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.budgetUsed
}

func (t *ActionTracker) ResetBudget() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.budgetUsed = 0
}

// Seed loads previously recorded action times, e.g. from the ledger after a
// restart. Times outside the window are ignored; the budget is not touched.
func (t *ActionTracker) Seed(times []time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.actions = append(t.actions, times...)
	// prune stops at the first recent entry, so keep the window ordered.
	slices.SortFunc(t.actions, func(a, b time.Time) int { return a.Compare(b) })
	t.prune(t.now())
}
