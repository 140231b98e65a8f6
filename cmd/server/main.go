// Package main is the entry point for the code execution service.
//
// main stays minimal on purpose: read configuration from the
// environment, construct the dependencies (logger, runner, explainer),
// and hand everything to internal/server. All decisions that must be
// made exactly once per process — which runner executes code, whether
// the remote explanation path is enabled — are made here and never
// revisited.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/code-runner/internal/explain"
	"github.com/sakif/code-runner/internal/runner"
	"github.com/sakif/code-runner/internal/runner/docker"
	"github.com/sakif/code-runner/internal/runner/subprocess"
	"github.com/sakif/code-runner/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// === CONFIGURATION ===
	port := 8000
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	staticDir, _ := filepath.Abs("web/static")
	if envStatic := os.Getenv("STATIC_DIR"); envStatic != "" {
		staticDir = envStatic
	}

	dbPath := "data/runs.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === EXECUTION RUNNER ===
	// subprocess is the default; RUNNER=docker opts into container
	// isolation (requires a running Docker daemon).
	var run runner.Runner
	switch os.Getenv("RUNNER") {
	case "docker":
		dockerRunner, err := docker.New(docker.DefaultConfig(), logger)
		if err != nil {
			logger.Error("failed to create docker runner", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer dockerRunner.Close()
		run = dockerRunner
		logger.Info("using docker runner")
	default:
		cfg := subprocess.DefaultConfig()
		if bin := os.Getenv("PYTHON_BIN"); bin != "" {
			cfg.PythonBin = bin
		}
		run = subprocess.New(cfg, logger)
		logger.Info("using subprocess runner", slog.String("python", cfg.PythonBin))
		logger.Warn("subprocess runner provides no sandboxing; set RUNNER=docker for untrusted users")
	}

	// === EXPLANATION PATH ===
	// The readiness decision happens right here, once. Changing the
	// AZURE_OPENAI_* variables after startup has no effect until the
	// process restarts.
	explainer := explain.New(explain.ConfigFromEnv(), logger)

	// === SERVER ===
	cfg := server.Config{
		Port:      port,
		StaticDir: staticDir,
		DBPath:    dbPath,
	}

	srv, err := server.New(cfg, logger, run, explainer)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
