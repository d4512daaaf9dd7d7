package nextflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/me/nfisoseq/internal/execution"
)

// Runner executes an Invocation.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// ExecRunner runs the engine as a local subprocess. Output streams straight
// to Stdout and Stderr.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	// Environ returns the inherited environment; os.Environ when nil.
	Environ func() []string
	// WaitDelay bounds how long Run waits after cancellation before killing.
	WaitDelay time.Duration

	logger *slog.Logger
}

// NewExecRunner creates a runner writing to the process stdout and stderr.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Environ:   os.Environ,
		WaitDelay: 30 * time.Second,
		logger:    logger.With("component", "nextflow-runner"),
	}
}

// Run starts the engine and waits for it. Cancelling ctx interrupts the
// process. A non-zero exit or a failure to start is a PipelineExecutionError.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) error {
	cmd := exec.CommandContext(ctx, inv.Program(), inv.Args()...)
	cmd.Dir = inv.Dir()
	environ := r.Environ
	if environ == nil {
		environ = os.Environ
	}
	cmd.Env = inv.Environ(environ())
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.WaitDelay

	r.logger.Info("launching Nextflow runtime", "command", inv.String(), "dir", inv.Dir())
	start := time.Now()

	err := cmd.Run()
	if err == nil {
		r.logger.Info("Nextflow runtime finished", "duration", time.Since(start).String())
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.logger.Error("Nextflow runtime failed",
			"exit_code", exitErr.ExitCode(),
			"duration", time.Since(start).String(),
		)
		return &execution.PipelineExecutionError{ExitCode: exitErr.ExitCode(), Err: err}
	}
	// Non-exit errors (e.g. binary not found).
	return &execution.PipelineExecutionError{ExitCode: -1, Err: err}
}
