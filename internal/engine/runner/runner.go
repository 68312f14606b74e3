// Package runner starts built containers and applies host updates through
// bootc.
package runner

import (
	"context"
	"strings"

	"github.com/frap129/trls-sub000/internal/core/domain"
	"github.com/frap129/trls-sub000/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner executes built images and drives bootc upgrades.
type Runner struct {
	cfg      *domain.Config
	executor ports.Executor
	logger   ports.Logger
}

// New creates a Runner.
func New(cfg *domain.Config, executor ports.Executor, logger ports.Logger) *Runner {
	return &Runner{cfg: cfg, executor: executor, logger: logger}
}

// RunContainer starts an interactive container from the locally built image
// with the given tag, passing extraArgs through to the container command.
// The image must already exist.
func (r *Runner) RunContainer(ctx context.Context, tag string, extraArgs []string) error {
	ref := domain.LocalhostPrefix + tag
	if err := r.ensureImageExists(ctx, ref); err != nil {
		return err
	}

	args := []string{
		"--net", "host",
		"--cap-add", "all",
		"--rm",
		"-it",
		ref,
	}
	args = append(args, extraArgs...)

	code, err := r.executor.RunStreaming(ctx, args)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRunFailed.Error()), "image", ref)
	}
	if code != 0 {
		return zerr.With(zerr.With(domain.ErrRunFailed, "image", ref), "exit_code", code)
	}
	return nil
}

// BootcUpgrade applies the built rootfs to the host via bootc upgrade.
func (r *Runner) BootcUpgrade(ctx context.Context) error {
	r.logger.Info("Running bootc upgrade...")

	if err := r.ensureBootcAvailable(ctx); err != nil {
		return err
	}

	if r.cfg.Quiet {
		res, err := r.executor.Bootc(ctx, []string{"upgrade"})
		if err != nil {
			return zerr.Wrap(err, domain.ErrBootcUpgradeFailed.Error())
		}
		if !res.Success() {
			return zerr.With(
				zerr.With(domain.ErrBootcUpgradeFailed, "exit_code", res.ExitCode),
				"stderr", strings.TrimSpace(res.Stderr),
			)
		}
	} else {
		code, err := r.executor.BootcStreaming(ctx, []string{"upgrade"})
		if err != nil {
			return zerr.Wrap(err, domain.ErrBootcUpgradeFailed.Error())
		}
		if code != 0 {
			return zerr.With(domain.ErrBootcUpgradeFailed, "exit_code", code)
		}
	}

	r.logger.Info("Update completed successfully")
	return nil
}

// ensureImageExists fails early with a hint when the requested image has not
// been built yet.
func (r *Runner) ensureImageExists(ctx context.Context, ref string) error {
	res, err := r.executor.Execute(ctx, "podman", []string{"image", "exists", ref})
	if err != nil {
		return zerr.Wrap(err, "failed to check if image exists")
	}
	if !res.Success() {
		return zerr.With(zerr.Wrap(domain.ErrImageNotFound, "run 'trls build' first"), "image", ref)
	}
	return nil
}

// ensureBootcAvailable distinguishes a missing bootc binary from one that is
// installed but broken.
func (r *Runner) ensureBootcAvailable(ctx context.Context) error {
	res, err := r.executor.Bootc(ctx, []string{"--version"})
	if err != nil {
		return zerr.Wrap(err, domain.ErrBootcUnavailable.Error())
	}
	if !res.Success() {
		return zerr.With(domain.ErrBootcUnavailable, "exit_code", res.ExitCode)
	}
	return nil
}
