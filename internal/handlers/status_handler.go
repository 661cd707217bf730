package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
)

// StatusHandler serves health, version and the answer-service probe
type StatusHandler struct {
	prober Prober
	apiKey string
	logger arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler. apiKey is the credential the probe uses.
func NewStatusHandler(prober Prober, apiKey string, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		prober: prober,
		apiKey: apiKey,
		logger: logger,
	}
}

// VersionHandler returns version information
func (h *StatusHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

// HealthHandler returns health check status
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"goroutines": common.GetGoroutineCount(),
		"spawned":    common.GetSpawnedCount(),
	})
}

// ProbeHandler handles GET /api/ai/probe. The outcome is in the body; the status is always 200.
func (h *StatusHandler) ProbeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	result := h.prober.Probe(r.Context(), h.apiKey)
	h.logger.Debug().Bool("success", result.Success).Str("message", result.Message).Msg("Probe requested")
	WriteJSON(w, http.StatusOK, result)
}

// NotFoundHandler handles 404 errors with JSON response
func (h *StatusHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
