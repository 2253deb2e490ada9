package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/beeper/ai-pptx/pkg/agents/tools"
	"github.com/beeper/ai-pptx/pkg/aitokens"
	"github.com/beeper/ai-pptx/pkg/config"
	"github.com/beeper/ai-pptx/pkg/pptx"
	"github.com/beeper/ai-pptx/pkg/security"
)

// app holds everything a tool call needs, built from the config.
type app struct {
	policy   *security.WorkspacePolicy
	ledger   *security.Ledger
	resetter *security.BudgetResetter
	executor *tools.Executor
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := zerolog.Ctx(ctx)
	policy, err := security.NewWorkspacePolicy(cfg.Security, *log)
	if err != nil {
		return nil, err
	}
	rt := &app{policy: policy}

	if cfg.Security.LedgerPath != "" {
		rt.ledger, err = openLedger(ctx, cfg.Security.LedgerPath)
		if err != nil {
			return nil, err
		}
		if err := policy.WithLedger(ctx, rt.ledger); err != nil {
			rt.Close()
			return nil, err
		}
	}
	if cfg.Security.BudgetReset != "" {
		rt.resetter, err = security.NewBudgetResetter(cfg.Security.BudgetReset, policy.Tracker(), *log)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.resetter.Start()
	}

	opts := []tools.PptxReaderOption{tools.WithWorker(pptx.NewWorker(cfg.PPTX.MaxConcurrent))}
	if cfg.PPTX.EstimateTokens {
		opts = append(opts, tools.WithTokenEstimator(aitokens.Estimator(cfg.PPTX.TokenizerModel)))
	}
	reader := tools.NewPptxReader(policy, policy.WorkspaceDir(), opts...)
	registry := tools.BuiltinRegistry(reader)
	rt.executor = tools.NewExecutor(registry, tools.NewPolicy().AllowGroup(registry, tools.GroupFS))

	log.Debug().
		Str("workspace", policy.WorkspaceDir()).
		Bool("ledger", rt.ledger != nil).
		Bool("budget_reset", rt.resetter != nil).
		Msg("Initialized")
	return rt, nil
}

func openLedger(ctx context.Context, path string) (*security.Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	return security.OpenLedger(ctx, path)
}

func (rt *app) Close() {
	if rt.resetter != nil {
		<-rt.resetter.Stop().Done()
	}
	if rt.ledger != nil {
		_ = rt.ledger.Close()
	}
}
