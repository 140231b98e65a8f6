package handler

import (
	"net/http"
	"os"
	"path/filepath"
)

// statusPayload is the static service descriptor served by /health and
// by / when no frontend asset is bundled.
var statusPayload = map[string]string{
	"service":  "Code Execution Service",
	"status":   "running",
	"endpoint": "/run",
}

// HandleHealth returns the static status payload. No core logic runs
// here — it exists so load balancers and uptime checks have something
// cheap to poke.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusPayload)
}

// RootHandler serves the bundled frontend on /, so localhost shows the
// app instead of a JSON blob. If the asset is missing the JSON status
// payload is the fallback.
type RootHandler struct {
	indexPath string
}

// NewRootHandler creates a RootHandler serving staticDir/index.html.
func NewRootHandler(staticDir string) *RootHandler {
	return &RootHandler{
		indexPath: filepath.Join(staticDir, "index.html"),
	}
}

// HandleRoot serves the frontend page or the status fallback.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.indexPath); err == nil {
		http.ServeFile(w, r, h.indexPath)
		return
	}
	writeJSON(w, http.StatusOK, statusPayload)
}
