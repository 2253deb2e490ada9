package security

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ValidateSchedule checks a budget reset schedule. Empty means "never reset".
func ValidateSchedule(spec string) error {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid budget reset schedule %q: %w", spec, err)
	}
	return nil
}

// BudgetResetter clears the action budget on a cron schedule.
type BudgetResetter struct {
	cron *cron.Cron
}

func NewBudgetResetter(spec string, tracker *ActionTracker, log zerolog.Logger) (*BudgetResetter, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, fmt.Errorf("budget reset schedule is empty")
	}
	if err := ValidateSchedule(spec); err != nil {
		return nil, err
	}
	c := cron.New()
	_, err := c.AddFunc(strings.TrimSpace(spec), func() {
		used := tracker.BudgetUsed()
		tracker.ResetBudget()
		log.Info().Int("budget_used", used).Msg("Action budget reset")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule budget reset: %w", err)
	}
	return &BudgetResetter{cron: c}, nil
}

func (r *BudgetResetter) Start() {
	r.cron.Start()
}

// Stop halts the scheduler; the returned context is done once a running
// reset has finished.
func (r *BudgetResetter) Stop() context.Context {
	return r.cron.Stop()
}
