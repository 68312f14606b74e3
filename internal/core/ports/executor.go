// Package ports defines the core interfaces for the application.
package ports

import "context"

// Result holds the captured output and exit status of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited with status zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Executor abstracts every external command the engines run. The returned
// error covers failures to spawn or wait on the process; a command that ran
// and exited non-zero is reported through the Result (or exit code for the
// streaming variants) instead.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Build runs podman build with the given arguments, capturing output.
	Build(ctx context.Context, args []string) (*Result, error)

	// BuildStreaming runs podman build with output passing through to the
	// caller's terminal, returning only the exit code.
	BuildStreaming(ctx context.Context, args []string) (int, error)

	// Run runs podman run, capturing output.
	Run(ctx context.Context, args []string) (*Result, error)

	// RunStreaming runs podman run with pass-through output.
	RunStreaming(ctx context.Context, args []string) (int, error)

	// ListImages runs podman images, capturing output.
	ListImages(ctx context.Context, args []string) (*Result, error)

	// RemoveImages runs podman rmi, capturing output.
	RemoveImages(ctx context.Context, args []string) (*Result, error)

	// Commit runs podman commit, capturing output.
	Commit(ctx context.Context, args []string) (*Result, error)

	// Bootc runs bootc, capturing output.
	Bootc(ctx context.Context, args []string) (*Result, error)

	// BootcStreaming runs bootc with pass-through output.
	BootcStreaming(ctx context.Context, args []string) (int, error)

	// Execute runs an arbitrary command, capturing output.
	Execute(ctx context.Context, command string, args []string) (*Result, error)
}
