// Package podman provides the production command executor, spawning the
// podman and bootc binaries as subprocesses.
package podman

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/frap129/trls-sub000/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	podmanBinary = "podman"
	bootcBinary  = "bootc"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Build runs podman build, capturing output.
func (e *Executor) Build(ctx context.Context, args []string) (*ports.Result, error) {
	return e.capture(ctx, podmanBinary, append([]string{"build"}, args...))
}

// BuildStreaming runs podman build with pass-through output.
func (e *Executor) BuildStreaming(ctx context.Context, args []string) (int, error) {
	return e.stream(ctx, podmanBinary, append([]string{"build"}, args...))
}

// Run runs podman run, capturing output.
func (e *Executor) Run(ctx context.Context, args []string) (*ports.Result, error) {
	return e.capture(ctx, podmanBinary, append([]string{"run"}, args...))
}

// RunStreaming runs podman run attached to the caller's terminal.
func (e *Executor) RunStreaming(ctx context.Context, args []string) (int, error) {
	return e.streamInteractive(ctx, podmanBinary, append([]string{"run"}, args...))
}

// ListImages runs podman images, capturing output.
func (e *Executor) ListImages(ctx context.Context, args []string) (*ports.Result, error) {
	return e.capture(ctx, podmanBinary, append([]string{"images"}, args...))
}

// RemoveImages runs podman rmi, capturing output.
func (e *Executor) RemoveImages(ctx context.Context, args []string) (*ports.Result, error) {
	return e.capture(ctx, podmanBinary, append([]string{"rmi"}, args...))
}

// Commit runs podman commit, capturing output.
func (e *Executor) Commit(ctx context.Context, args []string) (*ports.Result, error) {
	return e.capture(ctx, podmanBinary, append([]string{"commit"}, args...))
}

// Bootc runs bootc, capturing output.
func (e *Executor) Bootc(ctx context.Context, args []string) (*ports.Result, error) {
	return e.capture(ctx, bootcBinary, args)
}

// BootcStreaming runs bootc with pass-through output.
func (e *Executor) BootcStreaming(ctx context.Context, args []string) (int, error) {
	return e.stream(ctx, bootcBinary, args)
}

// Execute runs an arbitrary command, capturing output.
func (e *Executor) Execute(ctx context.Context, command string, args []string) (*ports.Result, error) {
	return e.capture(ctx, command, args)
}

// capture runs the command collecting stdout and stderr. A non-zero exit is
// reported through the Result; the error covers spawn failures only.
func (e *Executor) capture(ctx context.Context, name string, args []string) (*ports.Result, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // argument lists are built internally

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code, err := e.waitExit(cmd)
	if err != nil {
		return nil, err
	}

	return &ports.Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: code,
	}, nil
}

// stream runs the command with stdout and stderr inherited so output passes
// through live, returning the exit code.
func (e *Executor) stream(ctx context.Context, name string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // argument lists are built internally
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return e.waitExit(cmd)
}

// streamInteractive additionally wires stdin for interactive containers.
func (e *Executor) streamInteractive(ctx context.Context, name string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // argument lists are built internally
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return e.waitExit(cmd)
}

// waitExit runs the prepared command and separates non-zero exits from
// spawn failures.
func (e *Executor) waitExit(cmd *exec.Cmd) (int, error) {
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return -1, zerr.With(zerr.Wrap(err, "failed to run command"), "command", cmd.Path)
}
