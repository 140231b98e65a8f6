// Package explain turns raw Python error output into structured,
// learner-friendly explanations.
//
// There are two implementations of the Explainer interface:
//   - Fallback: deterministic, rule-based, works offline (rules.go)
//   - Remote: asks an Azure OpenAI deployment for a richer explanation (remote.go)
//
// Which one is used is decided ONCE at process start, from the Config
// assembled in main. The rest of the app only sees the interface —
// it never knows (or cares) which variant is behind it. This is the
// same "program to an interface" pattern the runner package uses.
package explain

import (
	"context"
	"log/slog"
	"os"
)

// Explanation is the structured diagnosis returned for a failed run.
//
// CorrectedExample is a pointer so that "no example" serializes as
// JSON null rather than an empty string — the frontend renders the
// example block only when it is present.
type Explanation struct {
	Summary          string   `json:"summary"`
	WhyItHappened    string   `json:"why_it_happened"`
	HowToFix         []string `json:"how_to_fix"`
	CorrectedExample *string  `json:"corrected_example"`
	Confidence       float64  `json:"confidence"`
}

// Explainer produces an Explanation for a piece of code and the error
// text it emitted. Implementations must always return a usable
// Explanation — degraded-mode notices, never hard failures.
type Explainer interface {
	Explain(ctx context.Context, code, errText string) Explanation
}

// Config holds the credentials for the remote explanation path.
// It is read from the environment exactly once (in main) and passed
// in explicitly — nothing in this package reads env vars at call time,
// so toggling variables after startup has no effect on a running
// process.
type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// ConfigFromEnv reads the three Azure OpenAI variables.
// Call this once during startup, not per request.
func ConfigFromEnv() Config {
	return Config{
		Endpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		APIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		Deployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
	}
}

// Ready reports whether the remote explanation path is fully
// configured. All three values must be present — a partial
// configuration is treated as "not ready" rather than an error.
func (c Config) Ready() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.Deployment != ""
}

// New selects the Explainer variant for this process based on the
// readiness of the remote configuration. The selection happens here,
// once; callers hold the returned interface for the process lifetime.
func New(cfg Config, logger *slog.Logger) Explainer {
	if cfg.Ready() {
		logger.Info("remote explainer enabled", slog.String("deployment", cfg.Deployment))
		return NewRemote(cfg, logger)
	}
	logger.Info("remote explainer not configured, using rule-based fallback")
	return NewFallback()
}
