package adapter

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	m "spvbuild.dev/pkg/spvbuild/internal/model"
)

// CompilerAdapter abstracts running the external shader compiler.
type CompilerAdapter interface {
	// Compile runs the compiler described by inv and blocks until it exits.
	// A non-nil error means no usable artifact was produced.
	Compile(ctx context.Context, inv m.Invocation) error
}

// LocalCompilerAdapter provides a concrete implementation using os/exec.
// Compiler diagnostics are streamed to stdout/stderr as they are produced.
type LocalCompilerAdapter struct {
	stdout io.Writer
	stderr io.Writer
}

// NewLocalCompilerAdapter constructs a LocalCompilerAdapter that passes the
// compiler's output through to the process' own stdout and stderr.
func NewLocalCompilerAdapter() *LocalCompilerAdapter {
	return NewLocalCompilerAdapterWithOutput(os.Stdout, os.Stderr)
}

// NewLocalCompilerAdapterWithOutput constructs a LocalCompilerAdapter writing
// the compiler's streams to the given writers.
func NewLocalCompilerAdapterWithOutput(stdout, stderr io.Writer) *LocalCompilerAdapter {
	return &LocalCompilerAdapter{
		stdout: stdout,
		stderr: stderr,
	}
}

// Compile runs the compiler with inv.WorkDir as its working directory.
func (a *LocalCompilerAdapter) Compile(ctx context.Context, inv m.Invocation) error {
	if inv.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	// #nosec G204 - the compiler binary is chosen by the operator
	cmd := exec.CommandContext(ctx, inv.Compiler, inv.Args()...)
	cmd.Dir = string(inv.WorkDir)
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr

	started := time.Now()
	err := cmd.Run()

	slog.Debug("compiler exited",
		"compiler", inv.Compiler,
		"args", cmd.Args[1:],
		"workDir", inv.WorkDir,
		"duration", time.Since(started),
		"error", err,
	)

	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}
