package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/adhyayan/internal/common"
	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// StatusHandler serves health, version, and library status endpoints
type StatusHandler struct {
	storage   interfaces.StorageManager
	qaService interfaces.QAService
	startTime time.Time
	logger    arbor.ILogger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(storage interfaces.StorageManager, qaService interfaces.QAService, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		storage:   storage,
		qaService: qaService,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthHandler reports service health including LLM reachability.
// GET /api/health
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	health := map[string]interface{}{
		"status":     "ok",
		"uptime":     time.Since(h.startTime).Round(time.Second).String(),
		"goroutines": common.GetGoroutineCount(),
	}

	if papers, err := h.storage.PaperStorage().CountPapers(r.Context()); err == nil {
		health["papers"] = papers
	}
	if chunks, err := h.storage.ChunkStorage().CountChunks(r.Context()); err == nil {
		health["chunks"] = chunks
	}

	if err := h.qaService.HealthCheck(r.Context()); err != nil {
		health["status"] = "degraded"
		health["llm"] = err.Error()
	} else {
		health["llm"] = "ok"
	}

	WriteJSON(w, http.StatusOK, health)
}

// VersionHandler reports build version information.
// GET /api/version
func (h *StatusHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.Version,
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}

// StatsHandler reports aggregate library statistics.
// GET /api/status
func (h *StatusHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := h.storage.PaperStorage().GetStats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to collect library stats")
		WriteError(w, http.StatusInternalServerError, "Failed to collect stats")
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// NotFoundHandler returns a JSON 404 for unmatched API routes
func (h *StatusHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Not found")
}
