// Package builder drives multi-stage container builds through podman.
package builder

import (
	"context"
	"fmt"
	"os"

	"github.com/frap129/trls-sub000/internal/core/domain"
	"github.com/frap129/trls-sub000/internal/core/ports"
	"github.com/frap129/trls-sub000/internal/engine/discovery"
	"go.trai.ch/zerr"
)

// Builder executes build plans stage by stage, tagging each intermediate
// image so the next stage can base itself on it.
type Builder struct {
	cfg       *domain.Config
	discovery *discovery.Discovery
	executor  ports.Executor
	logger    ports.Logger
}

// New creates a Builder.
func New(cfg *domain.Config, disc *discovery.Discovery, executor ports.Executor, logger ports.Logger) *Builder {
	return &Builder{
		cfg:       cfg,
		discovery: disc,
		executor:  executor,
		logger:    logger,
	}
}

// Build runs every stage of the plan in order. All Containerfiles are
// validated before any stage runs so a typo late in the list cannot waste an
// hour of building.
func (b *Builder) Build(ctx context.Context, plan *domain.BuildPlan) error {
	specs := make([]string, len(plan.Stages))
	for i, stage := range plan.Stages {
		specs[i] = stage.Spec
	}
	if err := b.discovery.ValidateStages(specs); err != nil {
		return err
	}

	if !b.cfg.PodmanBuildCache {
		restore := scopedEnv(domain.EnvBuildahLayers, "false")
		defer restore()
	}

	total := len(plan.Stages)
	for i, stage := range plan.Stages {
		path, err := b.discovery.Resolve(stage.Group)
		if err != nil {
			return err
		}

		b.logger.Info(fmt.Sprintf("Building stage %d/%d: %s -> %s", i+1, total, stage.Spec, stage.Tag))

		args, err := b.stageArgs(plan, stage, path)
		if err != nil {
			return err
		}

		if err := b.runBuild(ctx, stage, args); err != nil {
			return err
		}
	}

	return nil
}

// runBuild invokes podman build, captured when quiet and streaming
// otherwise.
func (b *Builder) runBuild(ctx context.Context, stage domain.ResolvedStage, args []string) error {
	if b.cfg.Quiet {
		res, err := b.executor.Build(ctx, args)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrBuildFailed.Error()), "stage", stage.Spec)
		}
		if !res.Success() {
			return zerr.With(
				zerr.With(
					zerr.With(domain.ErrBuildFailed, "stage", stage.Spec),
					"exit_code", res.ExitCode,
				),
				"stderr", res.Stderr,
			)
		}
		return nil
	}

	code, err := b.executor.BuildStreaming(ctx, args)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBuildFailed.Error()), "stage", stage.Spec)
	}
	if code != 0 {
		return zerr.With(zerr.With(domain.ErrBuildFailed, "stage", stage.Spec), "exit_code", code)
	}
	return nil
}

// stageArgs assembles the podman build argument list for one stage.
func (b *Builder) stageArgs(plan *domain.BuildPlan, stage domain.ResolvedStage, path string) ([]string, error) {
	args := []string{
		"--net", "host",
		"--cap-add", "sys_admin",
		"--cap-add", "mknod",
		"--squash",
		"-f", path,
		"--build-arg", "BASE_IMAGE=" + plan.BaseImage(stage.Index, b.cfg.RootfsBase),
		"--target", stage.Stage,
		"-t", stage.Tag,
	}

	if !b.cfg.PodmanBuildCache {
		args = append(args, "--no-cache")
	}

	if plan.Type == domain.BuildTypeRootfs {
		extra, err := b.rootfsArgs()
		if err != nil {
			return nil, err
		}
		args = append(args, extra...)
	}

	return args, nil
}

// rootfsArgs adds the mounts and build contexts that only rootfs builds
// need: extra build contexts, the package caches, the hooks directory, and
// any user-specified bind mounts.
func (b *Builder) rootfsArgs() ([]string, error) {
	var args []string

	for _, context := range b.cfg.ExtraContexts {
		args = append(args, "--build-context", context)
	}

	pacman, err := b.cacheMount(b.cfg.PacmanCache, "pacman", "PACMAN_CACHE", domain.PacmanCacheMount)
	if err != nil {
		return nil, err
	}
	args = append(args, pacman...)

	aur, err := b.cacheMount(b.cfg.AurCache, "AUR", "AUR_CACHE", domain.AurCacheMount)
	if err != nil {
		return nil, err
	}
	args = append(args, aur...)

	if b.cfg.HooksDir != "" {
		args = append(args,
			"-v", b.cfg.HooksDir+":"+b.cfg.HooksDir,
			"--build-arg", "HOOKS_DIR="+b.cfg.HooksDir,
		)
	}

	for _, mount := range b.cfg.ExtraMounts {
		args = append(args, "-v", mount+":"+mount)
	}

	return args, nil
}

// cacheMount validates a host cache directory and returns its volume and
// build-arg arguments. The directory is created if missing and must end up
// writable.
func (b *Builder) cacheMount(hostDir, name, buildArg, containerDir string) ([]string, error) {
	if hostDir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(hostDir, 0o755); err != nil {
		b.logger.Warn("failed to create cache directory", "cache", name, "path", hostDir)
		return nil, zerr.With(
			zerr.With(zerr.Wrap(err, domain.ErrCacheDirUnavailable.Error()), "cache", name),
			"path", hostDir,
		)
	}

	info, err := os.Stat(hostDir)
	if err != nil {
		b.logger.Warn("cannot access cache directory", "cache", name, "path", hostDir)
		return nil, zerr.With(
			zerr.With(zerr.Wrap(err, domain.ErrCacheDirUnavailable.Error()), "cache", name),
			"path", hostDir,
		)
	}
	if info.Mode().Perm()&0o200 == 0 {
		b.logger.Warn("cache directory is read-only", "cache", name, "path", hostDir)
		return nil, zerr.With(zerr.With(domain.ErrCacheDirUnavailable, "cache", name), "path", hostDir)
	}

	b.logger.Info(fmt.Sprintf("Using %s cache: %s", name, hostDir))
	return []string{
		"-v", hostDir + ":" + containerDir,
		"--build-arg", buildArg + "=" + containerDir,
	}, nil
}

// scopedEnv sets an environment variable and returns a func restoring the
// previous state, unsetting the variable if it was absent before.
func scopedEnv(key, value string) func() {
	previous, existed := os.LookupEnv(key)
	os.Setenv(key, value)

	return func() {
		if existed {
			os.Setenv(key, previous)
			return
		}
		os.Unsetenv(key)
	}
}
