// Package runner defines the interface for executing untrusted Python
// code with a wall-clock deadline.
//
// Two implementations exist:
//   - subprocess: runs `python3 -c` directly on the host (default)
//   - docker: runs inside a locked-down container (optional hardening)
//
// Neither is a real security sandbox on its own. The subprocess runner
// gives the code full access to the host filesystem and network; the
// docker runner adds namespace isolation and resource limits on top,
// but the timeout-and-capture contract below is all the core relies on.
package runner

import (
	"context"
	"time"
)

// Request describes one code execution.
type Request struct {
	// Code is the Python source, passed to the interpreter verbatim.
	Code string
	// Stdin is fed to the process as its standard input. May be empty.
	Stdin string
	// Timeout is the wall-clock deadline for this run.
	Timeout time.Duration
}

// Result captures what the process did within its deadline.
//
// TimedOut is a separate field rather than a magic exit code: a
// program can legitimately exit with any code, so "the deadline
// elapsed" has to be out-of-band.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Runner executes one request in a fresh, isolated child process.
//
// The error return is reserved for dispatch failures — the process
// could not be started at all. A program that ran and failed (nonzero
// exit, timeout) is a successful Run with the failure described in the
// Result. Implementations must not share mutable state between calls;
// concurrent Runs proceed independently.
type Runner interface {
	Run(ctx context.Context, req Request) (*Result, error)
}
