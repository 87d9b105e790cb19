package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/training-mne-api/internal/application/monitor"
	"github.com/training-mne-api/internal/application/scheduler"
	"github.com/training-mne-api/internal/domain"
	"github.com/training-mne-api/internal/pkg/validate"
)

type scanRunner interface {
	RunPass(ctx context.Context, d monitor.Detector) scheduler.PassReport
}

// MonitoringHandler exposes on-demand detector runs to admins. The same
// pass logic the scheduler uses runs synchronously and the report is
// returned to the caller.
type MonitoringHandler struct {
	runner    scanRunner
	detectors map[string]monitor.Detector
}

func NewMonitoringHandler(runner scanRunner, detectors []monitor.Detector) *MonitoringHandler {
	byName := make(map[string]monitor.Detector, len(detectors))
	for _, d := range detectors {
		byName[d.Name()] = d
	}
	return &MonitoringHandler{runner: runner, detectors: byName}
}

func (h *MonitoringHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req domain.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, ok := h.detectors[req.Detector]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown detector: "+req.Detector)
		return
	}

	report := h.runner.RunPass(r.Context(), d)
	writeJSON(w, http.StatusOK, report)
}
