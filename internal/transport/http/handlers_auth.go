package http

import (
	"net/http"

	"nidbridge/pkg/platform/httputil"
	"nidbridge/pkg/requestcontext"
)

const sessionCookieName = "nidbridge_session"

// localLogin authenticates an operator and mints the session token. The
// token is returned in the body and mirrored into a cookie for browser
// clients.
func (h *Handler) localLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[localLoginRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password, r.UserAgent())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   result.ExpiresIn,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	httputil.WriteJSON(w, http.StatusOK, result)
}

// localLogout tears down the caller's session. Runs behind RequireSession,
// so the username always comes from validated claims.
func (h *Handler) localLogout(w http.ResponseWriter, r *http.Request) {
	username := requestcontext.Username(r.Context())
	h.auth.Logout(r.Context(), username)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
