package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/code-runner/internal/repository"
)

// RunsHandler serves the run-history endpoints.
type RunsHandler struct {
	repo   repository.RunRepository
	logger *slog.Logger
}

// NewRunsHandler creates a RunsHandler.
func NewRunsHandler(repo repository.RunRepository, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{
		repo:   repo,
		logger: logger,
	}
}

// HandleList returns recent runs, newest first.
// GET /api/runs?limit=20&offset=0
func (h *RunsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts := repository.ListOptions{}

	// Unparsable values fall back to the repository defaults rather
	// than erroring — this is a convenience endpoint.
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Offset = n
		}
	}

	runs, err := h.repo.List(r.Context(), opts)
	if err != nil {
		h.logger.Error("failed to list runs", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

// HandleGetByID returns one run record.
// GET /api/runs/{id}
func (h *RunsHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, run)
}
