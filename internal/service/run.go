// Package service contains the business logic layer of the application.
//
// The run pipeline lives here:
//
//	Handler (HTTP)  → parses the request, writes the response
//	RunService      → validates, executes, diagnoses, assembles
//	Runner          → spawns the child process (subprocess or docker)
//	Explainer       → turns error text into a structured explanation
//
// The service depends only on interfaces (runner.Runner,
// explain.Explainer, repository.RunRepository), so tests swap in mocks
// and main decides which concrete implementations run in production.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/code-runner/internal/apperror"
	"github.com/sakif/code-runner/internal/explain"
	"github.com/sakif/code-runner/internal/model"
	"github.com/sakif/code-runner/internal/repository"
	"github.com/sakif/code-runner/internal/runner"
)

// Validation constants.
const (
	DefaultTimeoutSeconds = 10
	MinTimeoutSeconds     = 1
	MaxTimeoutSeconds     = 60
	MaxCodeLength         = 100000 // ~100KB of code

	// History rows keep a bounded excerpt of output; full output goes
	// to the caller, not to disk.
	maxStoredOutput = 10000
)

// noOutputPlaceholder keeps the success payload non-empty even when
// the program printed nothing — the frontend always has something to
// show.
const noOutputPlaceholder = "(no output)"

// RunRequest is the validated input to one execution.
type RunRequest struct {
	Code           string
	Stdin          string
	TimeoutSeconds int
}

// RunResponse is the uniform result record every execution produces,
// whatever happened. Exactly one of Output / Error is populated, and
// Explanation rides along only on diagnosable failures.
type RunResponse struct {
	Status        string               `json:"status"` // "success" or "error"
	Output        string               `json:"output,omitempty"`
	Error         string               `json:"error,omitempty"`
	Explanation   *explain.Explanation `json:"explanation,omitempty"`
	ExecutionTime float64              `json:"execution_time"` // seconds
}

// RunService orchestrates the execute-and-diagnose pipeline.
type RunService struct {
	runner    runner.Runner
	explainer explain.Explainer
	history   repository.RunRepository // optional; nil disables history
	logger    *slog.Logger
}

// NewRunService creates a RunService. history may be nil, in which
// case runs are simply not recorded.
func NewRunService(r runner.Runner, e explain.Explainer, history repository.RunRepository, logger *slog.Logger) *RunService {
	return &RunService{
		runner:    r,
		explainer: e,
		history:   history,
		logger:    logger,
	}
}

// Run executes one request end to end and assembles the response.
//
// Every execution outcome — success, program failure, timeout,
// dispatch failure — is converted into a RunResponse here; the only
// error this method returns is a validation error for a request that
// never reached the runner. One request, one attempt, no retries.
func (s *RunService) Run(ctx context.Context, req RunRequest) (*RunResponse, error) {
	// === VALIDATION ===
	if strings.TrimSpace(req.Code) == "" {
		return nil, apperror.ValidationFailed("code", "code is required")
	}
	if len(req.Code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be at most %d characters", MaxCodeLength))
	}

	timeout := req.TimeoutSeconds
	if timeout == 0 {
		timeout = DefaultTimeoutSeconds
	}
	if timeout < MinTimeoutSeconds || timeout > MaxTimeoutSeconds {
		return nil, apperror.ValidationFailed("timeout",
			fmt.Sprintf("timeout must be between %d and %d seconds", MinTimeoutSeconds, MaxTimeoutSeconds))
	}

	// === EXECUTION ===
	start := time.Now()
	res, err := s.runner.Run(ctx, runner.Request{
		Code:    req.Code,
		Stdin:   req.Stdin,
		Timeout: time.Duration(timeout) * time.Second,
	})
	if err != nil {
		// Dispatch failure: the process never started. Surfaced as a
		// generic error string — there is no program output to
		// classify.
		s.logger.Error("failed to dispatch execution", slog.String("error", err.Error()))
		return s.finish(ctx, req, &RunResponse{
			Status:        "error",
			Error:         err.Error(),
			ExecutionTime: time.Since(start).Seconds(),
		}, nil), nil
	}

	// === DIAGNOSIS & ASSEMBLY ===
	elapsed := res.Duration.Seconds()

	if res.TimedOut {
		// A timeout while the program sits in input() with nothing on
		// stdin is a different problem than a long computation, and we
		// can tell them apart structurally — no classifier needed.
		// The check is lexical and runs only on the timeout path.
		if expectsInput(req.Code) && strings.TrimSpace(req.Stdin) == "" {
			expl := explain.Starvation()
			return s.finish(ctx, req, &RunResponse{
				Status:        "error",
				Error:         "Your code is waiting for input, but no input was provided.",
				Explanation:   &expl,
				ExecutionTime: elapsed,
			}, res), nil
		}

		return s.finish(ctx, req, &RunResponse{
			Status:        "error",
			Error:         fmt.Sprintf("Execution timed out after %d seconds", timeout),
			ExecutionTime: elapsed,
		}, res), nil
	}

	if res.ExitCode == 0 {
		// Exit 0 is success no matter what landed on stderr.
		output := res.Stdout
		if output == "" {
			output = noOutputPlaceholder
		}
		return s.finish(ctx, req, &RunResponse{
			Status:        "success",
			Output:        output,
			ExecutionTime: elapsed,
		}, res), nil
	}

	expl := s.explainer.Explain(ctx, req.Code, res.Stderr)
	return s.finish(ctx, req, &RunResponse{
		Status:        "error",
		Error:         res.Stderr,
		Explanation:   &expl,
		ExecutionTime: elapsed,
	}, res), nil
}

// expectsInput is the lexical input-starvation check: does the code
// text contain a call to Python's interactive input builtin, in either
// of its two conventional spellings?
//
// Known limitation: this is a substring test, not a parse. It
// over-triggers on input() calls in unreachable code or string
// literals, and under-triggers on aliased or indirect calls. That
// trade-off is intentional — a wrong-but-confident timeout hint beats
// a parser here.
func expectsInput(code string) bool {
	return strings.Contains(code, "input(") || strings.Contains(code, "raw_input(")
}

// finish records the run in history (best-effort) and returns the
// response unchanged. History problems are logged, never propagated —
// the student's result must not depend on the audit log.
func (s *RunService) finish(ctx context.Context, req RunRequest, resp *RunResponse, res *runner.Result) *RunResponse {
	if s.history == nil {
		return resp
	}

	run := &model.Run{
		Status:        resp.Status,
		Code:          req.Code,
		Output:        truncate(resp.Output, maxStoredOutput),
		Error:         truncate(resp.Error, maxStoredOutput),
		ExecutionTime: resp.ExecutionTime,
	}
	if res != nil {
		run.ExitCode = res.ExitCode
		run.TimedOut = res.TimedOut
	}

	if err := s.history.Create(ctx, run); err != nil {
		s.logger.Warn("failed to record run history", slog.String("error", err.Error()))
	}

	return resp
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
