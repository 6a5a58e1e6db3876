package http

import (
	"net/http"

	"nidbridge/internal/audit"
	"nidbridge/internal/session"
	"nidbridge/pkg/platform/httputil"
)

const statusAuditLimit = 20

type statusResponse struct {
	Sessions          []session.Summary `json:"sessions"`
	ProviderUsernames []string          `json:"provider_usernames"`
	ActiveCaptures    []string          `json:"active_captures"`
	RecentAudit       []audit.Event     `json:"recent_audit"`
}

// status is the operator diagnostics page: live sessions, known provider
// bindings (usernames only, never tokens), captures in flight and the tail
// of the audit trail.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	recent, err := h.auditor.ListRecent(r.Context(), statusAuditLimit)
	if err != nil {
		h.logger.WarnContext(r.Context(), "audit tail unavailable", "error", err)
		recent = []audit.Event{}
	}

	httputil.WriteJSON(w, http.StatusOK, statusResponse{
		Sessions:          h.sessions.List(),
		ProviderUsernames: h.tokens.ListKnownUsernames(),
		ActiveCaptures:    h.orchestrator.ActiveCaptures(),
		RecentAudit:       recent,
	})
}
