// Package handler contains the HTTP request handlers.
//
// Handlers are the glue between HTTP and the service layer: they parse
// the incoming request, call the service, and write the response.
// Business rules (timeout bounds, code-size limits, diagnosis) live in
// internal/service, not here.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/code-runner/internal/service"
)

// CodeRunner is the slice of the service layer this handler needs.
// Depending on the interface (not *service.RunService) lets tests
// inject a mock without touching a real runner.
type CodeRunner interface {
	Run(ctx context.Context, req service.RunRequest) (*service.RunResponse, error)
}

// RunHandler handles POST /run.
type RunHandler struct {
	svc    CodeRunner
	logger *slog.Logger
}

// NewRunHandler creates a RunHandler.
func NewRunHandler(svc CodeRunner, logger *slog.Logger) *RunHandler {
	return &RunHandler{
		svc:    svc,
		logger: logger,
	}
}

// runRequest is the JSON body of POST /run.
// stdin and timeout are optional; the service applies the defaults.
type runRequest struct {
	Code    string `json:"code"`
	Stdin   string `json:"stdin"`
	Timeout int    `json:"timeout"`
}

// HandleRun executes a submitted program and returns the uniform
// result record. Note that a program that fails, times out, or can't
// even start still produces HTTP 200 with status "error" in the body —
// the HTTP layer only rejects requests that never reached the runner
// (bad JSON, validation failures).
func (h *RunHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid run request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "request body must be valid JSON",
		})
		return
	}

	resp, err := h.svc.Run(r.Context(), service.RunRequest{
		Code:           req.Code,
		Stdin:          req.Stdin,
		TimeoutSeconds: req.Timeout,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("run completed",
		slog.String("status", resp.Status),
		slog.Float64("executionTime", resp.ExecutionTime),
	)
	writeJSON(w, http.StatusOK, resp)
}
