package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/startupgo/internal/ctxlog"
	"github.com/vk/startupgo/internal/hcl"
	"github.com/vk/startupgo/internal/registry"
	"github.com/vk/startupgo/internal/startup"
)

// Loader abstracts the plan source so tests and alternative front ends can
// inject plans without going through the filesystem.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*hcl.Plan, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	plan     *hcl.Plan
	regs     []startup.Registration
}

// NewApp is the constructor for the main application. It loads the plan,
// registers handler modules, and resolves every plan task against the
// registry. A failure at any of these stages is a fatal startup error and
// panics; main and the test harness recover it into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, loader Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	plan, err := loader.Load(ctx, appConfig.PlanPath)
	if err != nil {
		panic(fmt.Errorf("failed to load boot plan: %w", err))
	}
	logger.Debug("Boot plan loaded into unified model.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All handler modules registered.", "count", len(modules))

	regs, err := reg.ResolveAll(plan.Tasks)
	if err != nil {
		panic(fmt.Errorf("failed to resolve boot plan against handlers: %w", err))
	}
	logger.Debug("Plan tasks resolved against registry.", "count", len(regs))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		plan:     plan,
		regs:     regs,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Plan returns the loaded boot plan. This is primarily for testing.
func (a *App) Plan() *hcl.Plan {
	return a.plan
}
