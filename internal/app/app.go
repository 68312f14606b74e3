// Package app implements the application layer for trls.
package app

import (
	"context"

	"github.com/frap129/trls-sub000/internal/core/domain"
	"github.com/frap129/trls-sub000/internal/core/ports"
	"github.com/frap129/trls-sub000/internal/engine/builder"
	"github.com/frap129/trls-sub000/internal/engine/cleaner"
	"github.com/frap129/trls-sub000/internal/engine/discovery"
	"github.com/frap129/trls-sub000/internal/engine/runner"
)

// Temp name segments used in intermediate stage tags. The cleaner matches
// on the resulting prefixes, so these must stay in sync with the domain
// prefix constants.
const (
	builderTempName = "builder"
	rootfsTempName  = "stage"
)

// App coordinates configuration loading and the build, clean, run, and
// update operations.
type App struct {
	loader   ports.ConfigLoader
	executor ports.Executor
	logger   ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, executor ports.Executor, log ports.Logger) *App {
	return &App{
		loader:   loader,
		executor: executor,
		logger:   log,
	}
}

// engines wires the per-invocation engine set for a resolved configuration.
type engines struct {
	builder *builder.Builder
	cleaner *cleaner.Cleaner
	runner  *runner.Runner
}

func (a *App) engines(cfg *domain.Config) engines {
	disc := discovery.New(cfg, a.logger)
	return engines{
		builder: builder.New(cfg, disc, a.executor, a.logger),
		cleaner: cleaner.New(cfg, a.executor, a.logger),
		runner:  runner.New(cfg, a.executor, a.logger),
	}
}

// BuildBuilder builds the builder container from the configured builder
// stages, then auto-cleans intermediates if enabled.
func (a *App) BuildBuilder(ctx context.Context, overrides domain.Overrides) error {
	cfg, err := a.loader.Load(overrides)
	if err != nil {
		return err
	}
	if len(cfg.BuilderStages) == 0 {
		return domain.ErrNoBuilderStages
	}

	eng := a.engines(cfg)
	plan := domain.NewBuildPlan(cfg.BuilderStages, cfg.BuilderTag, builderTempName, domain.BuildTypeBuilder)
	if err := eng.builder.Build(ctx, plan); err != nil {
		return err
	}

	a.logger.Info("Builder container built successfully")
	return eng.cleaner.AutoClean(ctx)
}

// BuildRootfs builds the rootfs container from the configured rootfs stages,
// then auto-cleans intermediates if enabled.
func (a *App) BuildRootfs(ctx context.Context, overrides domain.Overrides) error {
	cfg, err := a.loader.Load(overrides)
	if err != nil {
		return err
	}
	if len(cfg.RootfsStages) == 0 {
		return domain.ErrNoRootfsStages
	}

	eng := a.engines(cfg)
	plan := domain.NewBuildPlan(cfg.RootfsStages, cfg.RootfsTag, rootfsTempName, domain.BuildTypeRootfs)
	if err := eng.builder.Build(ctx, plan); err != nil {
		return err
	}

	a.logger.Info("Rootfs container built successfully")
	return eng.cleaner.AutoClean(ctx)
}

// Run starts an interactive container from the built rootfs image, passing
// args through to the container.
func (a *App) Run(ctx context.Context, overrides domain.Overrides, args []string) error {
	cfg, err := a.loader.Load(overrides)
	if err != nil {
		return err
	}

	return a.engines(cfg).runner.RunContainer(ctx, cfg.RootfsTag, args)
}

// Clean removes every generated image, final tags included.
func (a *App) Clean(ctx context.Context, overrides domain.Overrides) error {
	cfg, err := a.loader.Load(overrides)
	if err != nil {
		return err
	}

	return a.engines(cfg).cleaner.CleanAll(ctx)
}

// Update rebuilds the rootfs and applies it to the host via bootc upgrade.
func (a *App) Update(ctx context.Context, overrides domain.Overrides) error {
	if err := a.BuildRootfs(ctx, overrides); err != nil {
		return err
	}

	cfg, err := a.loader.Load(overrides)
	if err != nil {
		return err
	}

	return a.engines(cfg).runner.BootcUpgrade(ctx)
}

// Components contains all the initialized application components. This
// struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App          *App
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
	Executor     ports.Executor
}
