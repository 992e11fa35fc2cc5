package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/adhyayan/internal/services/scheduler"
	"github.com/ternarybob/arbor"
)

// MaintenanceHandler exposes the maintenance scheduler over the API
type MaintenanceHandler struct {
	scheduler *scheduler.Service
	logger    arbor.ILogger
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(schedulerService *scheduler.Service, logger arbor.ILogger) *MaintenanceHandler {
	return &MaintenanceHandler{
		scheduler: schedulerService,
		logger:    logger,
	}
}

// JobsHandler lists registered maintenance jobs and their status.
// GET /api/maintenance/jobs
func (h *MaintenanceHandler) JobsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"running": h.scheduler.IsRunning(),
		"jobs":    h.scheduler.JobStatuses(),
	})
}

// TriggerHandler runs a maintenance job immediately.
// POST /api/maintenance/jobs/{name}/trigger
func (h *MaintenanceHandler) TriggerHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/maintenance/jobs/")
	name := strings.TrimSuffix(rest, "/trigger")
	if name == "" || name == rest {
		WriteError(w, http.StatusBadRequest, "Job name is required")
		return
	}

	if err := h.scheduler.TriggerJob(name); err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	WriteStarted(w, "Job "+name+" triggered")
}
