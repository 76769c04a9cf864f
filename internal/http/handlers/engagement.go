package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicware/reengage/internal/channels"
	"github.com/clinicware/reengage/internal/engagement"
	"github.com/clinicware/reengage/internal/outreach"
	"github.com/clinicware/reengage/pkg/logging"
)

// EngagementHandler exposes the re-engagement engine over HTTP.
type EngagementHandler struct {
	service *engagement.Service
	logger  *logging.Logger
}

// NewEngagementHandler creates the handler.
func NewEngagementHandler(service *engagement.Service, logger *logging.Logger) *EngagementHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &EngagementHandler{service: service, logger: logger}
}

// RegisterRoutes mounts engagement endpoints under a chi router.
// Expected to be mounted under /api/v1/clinics/{clinicID}/engagement
func (h *EngagementHandler) RegisterRoutes(r chi.Router) {
	r.Get("/inactive", h.identifyInactive)
	r.Get("/stats", h.getStats)
	r.Post("/sequences/{trigger}/patients/{patientID}", h.runSequence)
	r.Post("/campaigns", h.runCampaign)
}

func (h *EngagementHandler) identifyInactive(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := h.clinicID(w, r)
	if !ok {
		return
	}

	var statuses []engagement.ActivityStatus
	for _, raw := range r.URL.Query()["status"] {
		status := engagement.ActivityStatus(raw)
		if !status.Valid() {
			http.Error(w, "unknown status: "+raw, http.StatusBadRequest)
			return
		}
		statuses = append(statuses, status)
	}

	snapshots, err := h.service.IdentifyInactivePatients(r.Context(), clinicID, statuses)
	if err != nil {
		h.writeError(w, "identify inactive patients", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"patients": snapshots,
		"count":    len(snapshots),
	})
}

func (h *EngagementHandler) getStats(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := h.clinicID(w, r)
	if !ok {
		return
	}

	stats, err := h.service.GetEngagementStatistics(r.Context(), clinicID)
	if err != nil {
		h.writeError(w, "engagement stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *EngagementHandler) runSequence(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := h.clinicID(w, r)
	if !ok {
		return
	}
	patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		http.Error(w, "invalid patient_id", http.StatusBadRequest)
		return
	}
	trigger := outreach.TriggerType(chi.URLParam(r, "trigger"))

	result, err := h.service.RunSequenceForPatient(r.Context(), clinicID, patientID, trigger)
	if err != nil {
		h.writeError(w, "run sequence", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type campaignRequest struct {
	TargetStatuses []string `json:"target_statuses"`
	Channel        string   `json:"channel"`
}

func (h *EngagementHandler) runCampaign(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := h.clinicID(w, r)
	if !ok {
		return
	}

	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	channel, err := channels.ParseChannel(req.Channel)
	if err != nil {
		http.Error(w, "unknown channel: "+req.Channel, http.StatusBadRequest)
		return
	}
	var statuses []engagement.ActivityStatus
	for _, raw := range req.TargetStatuses {
		status := engagement.ActivityStatus(raw)
		if !status.Valid() {
			http.Error(w, "unknown status: "+raw, http.StatusBadRequest)
			return
		}
		statuses = append(statuses, status)
	}
	if len(statuses) == 0 {
		http.Error(w, "target_statuses required", http.StatusBadRequest)
		return
	}

	result, err := h.service.RunReactivationCampaign(r.Context(), clinicID, statuses, channel)
	if err != nil {
		h.writeError(w, "run campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *EngagementHandler) clinicID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "clinicID"))
	if err != nil {
		http.Error(w, "invalid clinic_id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *EngagementHandler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, outreach.ErrSequenceNotFound),
		errors.Is(err, engagement.ErrPatientNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, engagement.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, engagement.ErrRepositoryUnavailable):
		h.logger.Error("engagement handler: "+op, "error", err)
		http.Error(w, "upstream data source unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("engagement handler: "+op, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
