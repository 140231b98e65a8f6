// Package subprocess implements runner.Runner with a plain child
// process: `python3 -c <code>` via os/exec.
//
// This is the default runner. It provides time-bounded, output-
// capturing execution and NOTHING more — no filesystem, network, or
// memory confinement. Use the docker runner for any deployment that
// faces untrusted users.
package subprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/sakif/code-runner/internal/runner"
)

var _ runner.Runner = (*Runner)(nil)

// Config holds the configuration for subprocess execution.
type Config struct {
	// PythonBin is the interpreter executable. Resolved via PATH if
	// not absolute.
	PythonBin string
}

// DefaultConfig returns the standard interpreter setup.
func DefaultConfig() Config {
	return Config{
		PythonBin: "python3",
	}
}

// Runner executes Python code as a directly spawned child process.
type Runner struct {
	config Config
	logger *slog.Logger
}

// New creates a subprocess Runner.
func New(cfg Config, logger *slog.Logger) *Runner {
	return &Runner{
		config: cfg,
		logger: logger,
	}
}

// Run spawns one interpreter process for the request and waits for it
// to finish or for the deadline to elapse, whichever comes first.
//
// The deadline is enforced with a per-request context: when it fires,
// exec kills this request's child and nothing else. Concurrent runs
// each carry their own context, so one slow program never delays
// another.
func (r *Runner) Run(ctx context.Context, req runner.Request) (*runner.Result, error) {
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.config.PythonBin, "-c", req.Code)
	cmd.Stdin = strings.NewReader(req.Stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// If the program forked children that inherited our pipes, Wait
	// would block until they exit too. WaitDelay caps that wait after
	// the child itself has been killed.
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	duration := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		r.logger.Info("execution timed out",
			slog.Duration("timeout", req.Timeout),
			slog.Duration("duration", duration),
		)
		return &runner.Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: -1,
			TimedOut: true,
			Duration: duration,
		}, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The program ran and exited nonzero. That is a result,
			// not a dispatch failure.
			return &runner.Result{
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				ExitCode: exitErr.ExitCode(),
				Duration: duration,
			}, nil
		}
		// Could not start the process at all (missing interpreter,
		// fork failure, ...).
		return nil, fmt.Errorf("starting %s: %w", r.config.PythonBin, err)
	}

	return &runner.Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
		Duration: duration,
	}, nil
}
