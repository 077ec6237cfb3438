package app

import (
	"context"
	"fmt"

	"github.com/vk/startupgo/internal/ctxlog"
	"github.com/vk/startupgo/internal/graph"
	"github.com/vk/startupgo/internal/startup"
)

// Run executes the loaded boot plan and returns the resulting variable
// table. It validates the dependency graph up front for readable
// diagnostics, then drives the engine — sequentially by default, or in the
// opted-in parallel mode when the config asks for more than one worker.
func (a *App) Run(ctx context.Context, appConfig *Config) (map[string]any, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	initialNames := make([]string, 0, len(a.plan.Values))
	for name := range a.plan.Values {
		initialNames = append(initialNames, name)
	}
	order, err := graph.Validate(a.regs, initialNames)
	if err != nil {
		return nil, fmt.Errorf("boot plan failed preflight validation: %w", err)
	}
	a.logger.Debug("Dependency graph validated.", "task_order", order)

	engine := startup.New()
	for _, reg := range a.regs {
		if err := engine.Register(reg); err != nil {
			return nil, fmt.Errorf("failed to register task: %w", err)
		}
	}
	a.logger.Info("Starting boot sequence.",
		"tasks", len(a.regs), "values", len(a.plan.Values), "workers", appConfig.Workers)

	var values map[string]any
	if appConfig.Workers > 1 {
		values, err = engine.RunParallel(ctx, a.plan.Values, appConfig.Workers)
	} else {
		values, err = engine.Run(ctx, a.plan.Values)
	}
	if err != nil {
		return nil, fmt.Errorf("boot sequence failed: %w", err)
	}

	a.logger.Info("Boot sequence finished.", "variables", len(values))
	return values, nil
}
