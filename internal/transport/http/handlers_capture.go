package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	dErrors "nidbridge/pkg/domain-errors"
	"nidbridge/pkg/platform/httputil"
)

func (h *Handler) deviceHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.Health(r.Context()); err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeServiceUnavailable, "device peer unreachable", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) deviceStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.orchestrator.DeviceStatus(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeServiceUnavailable, "device status unavailable", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) deviceConnect(w http.ResponseWriter, r *http.Request) {
	status, err := h.orchestrator.Connect(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeServiceUnavailable, "device connect failed", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) deviceDisconnect(w http.ResponseWriter, r *http.Request) {
	status, err := h.orchestrator.Disconnect(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeServiceUnavailable, "device disconnect failed", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) deviceLock(w http.ResponseWriter, r *http.Request) {
	status, err := h.orchestrator.Lock(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeServiceUnavailable, "device lock failed", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

// captureOne runs a single capture attempt. Capture failures come back as a
// 200 with success=false: the HTTP exchange worked, the finger did not.
func (h *Handler) captureOne(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[captureRequest](w, r, h.logger)
	if !ok {
		return
	}

	result := h.orchestrator.CaptureOne(r.Context(), req.FingerID, req.QualityThreshold,
		time.Duration(req.TimeoutSeconds)*time.Second, req.RetryBudget)
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) captureBatch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[captureBatchRequest](w, r, h.logger)
	if !ok {
		return
	}
	if len(req.FingerIDs) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "finger_ids must not be empty"))
		return
	}

	if req.OnPeer {
		outcome, err := h.orchestrator.BatchOnPeer(r.Context(), req.FingerIDs, req.QualityThreshold, req.RetryBudget)
		if err != nil {
			httputil.WriteError(w, dErrors.Wrap(dErrors.CodeServiceUnavailable, "peer batch capture failed", err))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, outcome)
		return
	}

	outcome := h.orchestrator.CaptureBatch(r.Context(), req.FingerIDs, req.QualityThreshold,
		time.Duration(req.TimeoutSeconds)*time.Second, req.RetryBudget)
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

func (h *Handler) captureCancel(w http.ResponseWriter, r *http.Request) {
	fingerID := chi.URLParam(r, "fingerID")
	cancelled := h.orchestrator.Cancel(r.Context(), fingerID)
	httputil.WriteJSON(w, http.StatusOK, cancelResponse{Cancelled: cancelled})
}

func (h *Handler) captureActive(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{
		"active_captures": h.orchestrator.ActiveCaptures(),
	})
}

func (h *Handler) qualityAssess(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[qualityAssessRequest](w, r, h.logger)
	if !ok {
		return
	}

	report, err := h.orchestrator.AssessQuality(r.Context(), req.Image)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeServiceUnavailable, "quality assessment failed", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
