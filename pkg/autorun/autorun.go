// Package autorun re-optimizes the stored directory on a fixed schedule.
package autorun

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arnavshah/seat-planner-go/pkg/models"
)

// Frequencies offered by the admin console
const (
	Weekly   = "weekly"
	Biweekly = "biweekly"
	Monthly  = "monthly"
)

// CreatedBy marks plans produced by the scheduler
const CreatedBy = "autorun"

// Interval converts a frequency name into a tick period. Monthly is a fixed
// 30 days.
func Interval(frequency string) (time.Duration, error) {
	switch strings.ToLower(frequency) {
	case Weekly, "":
		return 7 * 24 * time.Hour, nil
	case Biweekly:
		return 14 * 24 * time.Hour, nil
	case Monthly:
		return 30 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("unknown auto-run frequency %q", frequency)
}

// PresetRunner is the part of the plan service the scheduler needs
type PresetRunner interface {
	RunPreset(ctx context.Context, preset, createdBy string) (models.OptimizeResponse, error)
}

// Runner triggers an optimization every interval
type Runner struct {
	svc      PresetRunner
	interval time.Duration
	preset   string
	logger   *zap.Logger
}

// New builds a Runner for the given frequency name
func New(svc PresetRunner, frequency, preset string, logger *zap.Logger) (*Runner, error) {
	interval, err := Interval(frequency)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{svc: svc, interval: interval, preset: preset, logger: logger}, nil
}

// Run blocks until ctx is cancelled, optimizing once per interval. Failed runs
// are logged and retried at the next tick.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("auto-run scheduled", zap.Duration("interval", r.interval), zap.String("preset", r.preset))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	res, err := r.svc.RunPreset(ctx, r.preset, CreatedBy)
	if err != nil {
		r.logger.Error("auto-run optimization failed", zap.Error(err))
		return
	}
	r.logger.Info("auto-run optimization finished",
		zap.String("plan_id", res.Plan.ID),
		zap.Int("optimization_score", res.Plan.OptimizationScore),
	)
}
