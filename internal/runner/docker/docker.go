// Package docker implements runner.Runner inside locked-down Docker
// containers: no network, read-only root filesystem, memory and CPU
// limits, unprivileged user.
//
// This is the hardening layer the subprocess runner deliberately
// lacks. It is opt-in (RUNNER=docker) because it requires a Docker
// daemon; the timeout-and-capture contract is identical either way.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/sakif/code-runner/internal/runner"
)

var _ runner.Runner = (*Runner)(nil)

// Runner executes Python code in pooled Docker containers.
type Runner struct {
	cli    *client.Client
	config Config
	logger *slog.Logger
	pool   *Pool
}

// New creates a Docker Runner, pulls the interpreter image if needed,
// and starts the warm-container pool.
func New(cfg Config, logger *slog.Logger) (*Runner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger.Info("ensuring docker image is available", slog.String("image", cfg.Image))
	reader, err := cli.ImagePull(ctx, cfg.Image, image.PullOptions{})
	if err != nil {
		return nil, fmt.Errorf("pulling image %s: %w", cfg.Image, err)
	}
	defer reader.Close()
	// Read everything to block until the pull is complete
	io.Copy(io.Discard, reader)
	logger.Info("docker image is ready")

	r := &Runner{
		cli:    cli,
		config: cfg,
		logger: logger,
	}

	r.pool = NewPool(cli, cfg, logger)
	r.pool.Start()

	return r, nil
}

// Close shuts down the container pool and the docker client.
func (r *Runner) Close() error {
	r.pool.Stop()
	return r.cli.Close()
}

// Run executes the request's code in a container taken from the pool.
// The container is removed afterwards regardless of outcome — each run
// gets a fresh one, so nothing leaks between requests.
func (r *Runner) Run(ctx context.Context, req runner.Request) (*runner.Result, error) {
	start := time.Now()

	containerID, err := r.pool.GetContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring container from pool: %w", err)
	}

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := r.cli.ContainerRemove(cleanupCtx, containerID, container.RemoveOptions{
			Force: true,
		})
		if err != nil {
			r.logger.Error("failed to remove container", slog.String("id", containerID), slog.String("error", err.Error()))
		}
	}()

	// The request's deadline applies only to the run itself, not to
	// pool acquisition or cleanup.
	runCtx, runCancel := context.WithTimeout(ctx, req.Timeout)
	defer runCancel()

	// The pooled container idles on `sleep infinity`; the program runs
	// as a docker exec inside it.
	execConfig := container.ExecOptions{
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          []string{"python3", "-c", req.Code},
	}

	execResp, err := r.cli.ContainerExecCreate(runCtx, containerID, execConfig)
	if err != nil {
		return nil, fmt.Errorf("creating exec: %w", err)
	}

	attachResp, err := r.cli.ContainerExecAttach(runCtx, execResp.ID, container.ExecStartOptions{})
	if err != nil {
		return nil, fmt.Errorf("attaching to exec: %w", err)
	}
	defer attachResp.Close()

	// Feed stdin and close the write side so input() sees EOF once the
	// supplied text is consumed, exactly like the subprocess runner.
	go func() {
		if req.Stdin != "" {
			_, _ = attachResp.Conn.Write([]byte(req.Stdin))
		}
		_ = attachResp.CloseWrite()
	}()

	var stdout, stderr bytes.Buffer

	done := make(chan struct{})
	go func() {
		// stdcopy demultiplexes stdout from stderr on the single stream
		_, _ = stdcopy.StdCopy(&stdout, &stderr, attachResp.Reader)
		close(done)
	}()

	select {
	case <-done:
		// Completed within the deadline
		inspectResp, err := r.cli.ContainerExecInspect(ctx, execResp.ID)
		if err != nil {
			return nil, fmt.Errorf("inspecting exec: %w", err)
		}
		return &runner.Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: inspectResp.ExitCode,
			Duration: time.Since(start),
		}, nil

	case <-runCtx.Done():
		// Deadline elapsed; the deferred ContainerRemove kills the
		// container and with it the running program.
		return &runner.Result{
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: -1,
			TimedOut: true,
			Duration: time.Since(start),
		}, nil
	}
}
