// Package security implements the workspace sandbox policy consulted by
// file-reading tools: path allow-listing, rate limiting and action budgets.
package security

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/beeper/ai-pptx/pkg/textfs"
)

// DefaultForbiddenPaths are denied even outside workspace-only mode.
var DefaultForbiddenPaths = []string{
	"/etc",
	"/root",
	"/proc",
	"/sys",
	"/dev",
	"/var/run",
	"~/.ssh",
	"~/.gnupg",
	"~/.aws",
}

const (
	DefaultMaxActionsPerHour = 120
	ledgerWriteTimeout       = 5 * time.Second
)

// Config controls the sandbox.
type Config struct {
	WorkspaceDir        string   `yaml:"workspace_dir" json:"workspace_dir"`
	WorkspaceOnly       bool     `yaml:"workspace_only" json:"workspace_only"`
	AllowedRoots        []string `yaml:"allowed_roots" json:"allowed_roots"`
	ForbiddenPaths      []string `yaml:"forbidden_paths" json:"forbidden_paths"`
	MaxActionsPerHour   int      `yaml:"max_actions_per_hour" json:"max_actions_per_hour"`
	MaxActionsPerBudget int      `yaml:"max_actions_per_budget" json:"max_actions_per_budget"`
	BudgetReset         string   `yaml:"budget_reset" json:"budget_reset"`
	LedgerPath          string   `yaml:"ledger_path" json:"ledger_path"`
}

// WorkspacePolicy confines file access to a workspace directory plus a list
// of allowed roots, and meters actions through an ActionTracker.
type WorkspacePolicy struct {
	cfg          Config
	workspace    string
	allowedRoots []string
	forbidden    []string
	tracker      *ActionTracker
	ledger       *Ledger
	log          zerolog.Logger
}

// NewWorkspacePolicy builds a policy from cfg. The workspace and allowed roots
// are canonicalized once here so resolved paths can be compared directly.
func NewWorkspacePolicy(cfg Config, log zerolog.Logger) (*WorkspacePolicy, error) {
	if strings.TrimSpace(cfg.WorkspaceDir) == "" {
		return nil, fmt.Errorf("workspace directory is required")
	}
	workspace, err := canonicalRoot(textfs.ExpandHome(cfg.WorkspaceDir))
	if err != nil {
		return nil, fmt.Errorf("workspace directory: %w", err)
	}
	p := &WorkspacePolicy{
		cfg:       cfg,
		workspace: workspace,
		tracker:   NewActionTracker(time.Hour),
		log:       log.With().Str("component", "security-policy").Logger(),
	}
	for _, root := range cfg.AllowedRoots {
		if strings.TrimSpace(root) == "" {
			continue
		}
		canonical, err := canonicalRoot(textfs.ExpandHome(root))
		if err != nil {
			return nil, fmt.Errorf("allowed root %q: %w", root, err)
		}
		p.allowedRoots = append(p.allowedRoots, canonical)
	}
	forbidden := cfg.ForbiddenPaths
	if forbidden == nil {
		forbidden = DefaultForbiddenPaths
	}
	for _, path := range forbidden {
		if strings.TrimSpace(path) == "" {
			continue
		}
		p.forbidden = append(p.forbidden, filepath.Clean(textfs.ExpandHome(path)))
	}
	return p, nil
}

// canonicalRoot resolves symlinks when the directory exists and falls back to
// the cleaned absolute path otherwise.
func canonicalRoot(dir string) (string, error) {
	if canonical, err := textfs.Canonicalize(dir); err == nil {
		return canonical, nil
	}
	return filepath.Abs(dir)
}

// WithLedger persists every recorded action to ledger and seeds the rate
// window with the actions recorded during the last hour.
func (p *WorkspacePolicy) WithLedger(ctx context.Context, ledger *Ledger) error {
	times, err := ledger.Since(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		return fmt.Errorf("seed rate window: %w", err)
	}
	p.tracker.Seed(times)
	p.ledger = ledger
	return nil
}

// WorkspaceDir returns the canonical workspace directory.
func (p *WorkspacePolicy) WorkspaceDir() string {
	return p.workspace
}

func (p *WorkspacePolicy) Tracker() *ActionTracker {
	return p.tracker
}

func (p *WorkspacePolicy) IsRateLimited() bool {
	if p.cfg.MaxActionsPerHour <= 0 {
		return false
	}
	return p.tracker.Count() >= p.cfg.MaxActionsPerHour
}

// RecordAction counts an action and reports whether it stayed within both the
// hourly rate and the budget. The action is counted even when it did not.
func (p *WorkspacePolicy) RecordAction() bool {
	windowCount, budgetUsed := p.tracker.Record()
	allowed := (p.cfg.MaxActionsPerHour <= 0 || windowCount <= p.cfg.MaxActionsPerHour) &&
		(p.cfg.MaxActionsPerBudget <= 0 || budgetUsed <= p.cfg.MaxActionsPerBudget)
	if p.ledger != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ledgerWriteTimeout)
		defer cancel()
		if err := p.ledger.Record(ctx, time.Now(), windowCount, budgetUsed, allowed); err != nil {
			p.log.Err(err).Msg("Failed to write action to ledger")
		}
	}
	if !allowed {
		p.log.Warn().
			Int("window_count", windowCount).
			Int("budget_used", budgetUsed).
			Msg("Action budget exhausted")
	}
	return allowed
}

// IsPathAllowed checks the path exactly as the caller supplied it, before any
// filesystem access.
func (p *WorkspacePolicy) IsPathAllowed(raw string) bool {
	if strings.TrimSpace(raw) == "" || strings.ContainsRune(raw, 0) {
		return false
	}
	for _, part := range strings.FieldsFunc(raw, isPathSeparator) {
		if part == ".." {
			return false
		}
	}
	if strings.HasPrefix(raw, "~") && raw != "~" && !strings.HasPrefix(raw, "~/") {
		// ~user forms are never expanded.
		return false
	}
	expanded := textfs.ExpandHome(raw)
	if !filepath.IsAbs(expanded) {
		return true
	}
	return p.isAbsoluteAllowed(filepath.Clean(expanded))
}

// IsResolvedPathAllowed checks a canonical path, after symlinks were
// followed.
func (p *WorkspacePolicy) IsResolvedPathAllowed(canonical string) bool {
	if !filepath.IsAbs(canonical) {
		return false
	}
	return p.isAbsoluteAllowed(filepath.Clean(canonical))
}

func (p *WorkspacePolicy) isAbsoluteAllowed(path string) bool {
	if p.inAllowedRoot(path) {
		return true
	}
	if p.cfg.WorkspaceOnly {
		return false
	}
	for _, forbidden := range p.forbidden {
		if textfs.IsWithin(forbidden, path) {
			return false
		}
	}
	return true
}

func (p *WorkspacePolicy) inAllowedRoot(path string) bool {
	if textfs.IsWithin(p.workspace, path) {
		return true
	}
	for _, root := range p.allowedRoots {
		if textfs.IsWithin(root, path) {
			return true
		}
	}
	return false
}

func (p *WorkspacePolicy) ResolvedPathViolationMessage(canonical string) string {
	allowed := append([]string{p.workspace}, p.allowedRoots...)
	return fmt.Sprintf(
		"Resolved path escapes workspace allowlist: %s (allowed roots: %s). Symlinks pointing outside the workspace are not followed.",
		canonical, strings.Join(allowed, ", "),
	)
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
