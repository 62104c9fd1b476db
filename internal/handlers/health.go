package handlers

import (
	"net/http"
	"runtime"
	"time"

	"reaper-cleaner/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDone     = "done"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	RunID     string `json:"runId,omitempty"`
	Phase     string `json:"phase"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	LastError string `json:"lastError,omitempty"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports the phase of the running cleaner. A run that stopped
// with an error is degraded but still answers 200 so scrapes keep working.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	snap := h.status.snapshot()

	response := HealthResponse{
		Status:       statusHealthy,
		RunID:        snap.runID,
		Phase:        snap.phase,
		Version:      startup.Version,
		Uptime:       snap.uptime.Round(time.Millisecond).String(),
		LastError:    snap.lastError,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}
	switch {
	case snap.lastError != "":
		response.Status = statusDegraded
	case snap.done:
		response.Status = statusDone
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		writeJSON(w, response)
	}
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}
