package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/training-mne-api/internal/application/alert"
	"github.com/training-mne-api/internal/domain"
	"github.com/training-mne-api/internal/transport/http/middleware"
)

// AlertHandler handles alert list and resolution endpoints. Tenant scope
// comes from the JWT claims, never from the request.
type AlertHandler struct {
	svc alert.Service
}

func NewAlertHandler(svc alert.Service) *AlertHandler { return &AlertHandler{svc: svc} }

func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var filter alert.ListFilter
	if raw := r.URL.Query().Get("resolved"); raw != "" {
		resolved, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "resolved must be true or false")
			return
		}
		filter.Resolved = &resolved
	}

	alerts, err := h.svc.List(r.Context(), claims.PartnerID, filter)
	if err != nil {
		httpError(w, err)
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	writeJSON(w, http.StatusOK, AlertListEnvelope{Total: len(alerts), Data: alerts})
}

func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	a, err := h.svc.Resolve(r.Context(), claims.PartnerID, chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) && a != nil {
			writeJSON(w, http.StatusConflict, ResolveConflictEnvelope{
				Error: "alert already resolved",
				Alert: a,
			})
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
