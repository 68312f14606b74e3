// Package cleaner removes generated container images, either everything or
// just the intermediate stage tags.
package cleaner

import (
	"context"
	"fmt"
	"strings"

	"github.com/frap129/trls-sub000/internal/core/domain"
	"github.com/frap129/trls-sub000/internal/core/ports"
	"go.trai.ch/zerr"
)

// Cleaner lists and removes images produced by builds.
type Cleaner struct {
	cfg      *domain.Config
	executor ports.Executor
	logger   ports.Logger
}

// New creates a Cleaner.
func New(cfg *domain.Config, executor ports.Executor, logger ports.Logger) *Cleaner {
	return &Cleaner{cfg: cfg, executor: executor, logger: logger}
}

// CleanAll removes every generated image, final tags included.
func (c *Cleaner) CleanAll(ctx context.Context) error {
	c.logger.Info("Cleaning generated images...")

	removed, err := c.Clean(ctx, domain.CleanModeFull)
	if err != nil {
		return err
	}

	if removed == 0 {
		c.logger.Info("No generated images found to clean")
	} else {
		c.logger.Info(fmt.Sprintf("Cleanup completed - removed %d images", removed))
	}
	return nil
}

// AutoClean removes intermediate images after a successful build, but only
// when auto-clean is enabled.
func (c *Cleaner) AutoClean(ctx context.Context) error {
	if !c.cfg.AutoClean {
		return nil
	}

	removed, err := c.Clean(ctx, domain.CleanModeAuto)
	if err != nil {
		return err
	}

	if removed > 0 {
		c.logger.Info(fmt.Sprintf("Auto-cleanup removed %d intermediate images", removed))
	}
	return nil
}

// Clean lists images, selects the ones owned by this tool per the mode, and
// removes them. It returns how many images were actually removed.
func (c *Cleaner) Clean(ctx context.Context, mode domain.CleanMode) (int, error) {
	res, err := c.executor.ListImages(ctx, []string{"--format", "{{.Repository}}:{{.Tag}}"})
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrImageListFailed.Error())
	}
	if !res.Success() {
		return 0, zerr.With(
			zerr.With(domain.ErrImageListFailed, "exit_code", res.ExitCode),
			"stderr", res.Stderr,
		)
	}

	classifier := domain.NewImageClassifier(c.cfg)

	var targets []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		record, ok := domain.ParseImageRecord(line)
		if !ok {
			// The listing format is best-effort; skip lines that do not
			// parse as repository:tag.
			continue
		}
		if classifier.ShouldRemove(record.Ref(), mode) {
			targets = append(targets, record.Ref())
		}
	}

	if len(targets) == 0 {
		return 0, nil
	}

	desc := "generated"
	if mode == domain.CleanModeAuto {
		desc = "intermediate"
	}
	c.logger.Info(fmt.Sprintf("Found %d %s images to remove", len(targets), desc))
	return c.removeBatch(ctx, targets)
}

// removeBatch removes all targets in one rmi call, falling back to
// one-by-one removal when the batch fails so a single stubborn image cannot
// block the rest.
func (c *Cleaner) removeBatch(ctx context.Context, images []string) (int, error) {
	if len(images) == 1 {
		return c.removeSingle(ctx, images[0])
	}

	res, err := c.executor.RemoveImages(ctx, append([]string{"-f"}, images...))
	if err == nil && res.Success() {
		c.logger.Info(fmt.Sprintf("Batch removed %d images", len(images)))
		return len(images), nil
	}

	if err != nil {
		c.logger.Warn("batch removal failed to execute", "error", err.Error())
	} else {
		c.logger.Info("Batch removal failed: " + strings.TrimSpace(res.Stderr))
	}
	c.logger.Info("Trying individual removal...")

	removed := 0
	for _, image := range images {
		n, err := c.removeSingle(ctx, image)
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}

// removeSingle removes one image, reporting failure as a warning rather than
// an error so the caller can keep a running count.
func (c *Cleaner) removeSingle(ctx context.Context, image string) (int, error) {
	res, err := c.executor.RemoveImages(ctx, []string{"-f", image})
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to remove image"), "image", image)
	}

	if res.Success() {
		c.logger.Info("Removed image: " + image)
		return 1, nil
	}

	c.logger.Warn("failed to remove image", "image", image, "stderr", strings.TrimSpace(res.Stderr))
	return 0, nil
}
