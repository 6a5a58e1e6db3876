package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"nidbridge/internal/gateway"
	dErrors "nidbridge/pkg/domain-errors"
	"nidbridge/pkg/platform/httputil"
)

// providerLogin exchanges provider credentials for a token pair and caches
// it under the provider username. Tokens never leave this service; callers
// refer to the binding by username from then on.
func (h *Handler) providerLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[providerLoginRequest](w, r, h.logger)
	if !ok {
		return
	}

	pair, err := h.gateway.Login(r.Context(), req.ProviderUsername, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ttl := h.tokenTTL
	if pair.ExpiresIn > 0 {
		if advertised := time.Duration(pair.ExpiresIn) * time.Second; advertised < ttl {
			ttl = advertised
		}
	}
	h.tokens.Store(req.ProviderUsername, pair.AccessToken, pair.RefreshToken, ttl)

	httputil.WriteJSON(w, http.StatusOK, providerLoginResponse{
		ProviderUsername: req.ProviderUsername,
		ExpiresIn:        int64(ttl.Seconds()),
	})
}

// providerLogout invalidates the provider session and drops the cached pair.
// The cache entry goes away even if the provider call fails: a token we can
// no longer trust must not be reused.
func (h *Handler) providerLogout(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[providerLogoutRequest](w, r, h.logger)
	if !ok {
		return
	}

	token, ok := h.cachedToken(w, req.ProviderUsername)
	if !ok {
		return
	}

	err := h.gateway.Logout(r.Context(), token)
	h.tokens.Remove(req.ProviderUsername)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// providerChangePassword rotates the provider password. The provider
// invalidates all outstanding tokens on success, so the cached pair is
// evicted here.
func (h *Handler) providerChangePassword(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[changePasswordRequest](w, r, h.logger)
	if !ok {
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "new_password and confirm_password do not match"))
		return
	}

	token, ok := h.cachedToken(w, req.ProviderUsername)
	if !ok {
		return
	}

	err := h.gateway.ChangePassword(r.Context(), token, gateway.ChangePasswordRequest{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.tokens.Remove(req.ProviderUsername)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

func (h *Handler) verifyDemographic(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[demographicVerifyRequest](w, r, h.logger)
	if !ok {
		return
	}

	token, ok := h.cachedToken(w, req.ProviderUsername)
	if !ok {
		return
	}

	result, err := h.gateway.VerifyDemographic(r.Context(), token, gateway.DemographicRequest{
		NationalID:  req.NationalID,
		DateOfBirth: req.DateOfBirth,
		FullName:    req.FullName,
		FatherName:  req.FatherName,
		MotherName:  req.MotherName,
		Address:     req.Address,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) billingReport(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[billingReportRequest](w, r, h.logger)
	if !ok {
		return
	}

	token, ok := h.cachedToken(w, req.ProviderUsername)
	if !ok {
		return
	}

	report, err := h.gateway.BillingReport(r.Context(), token, gateway.BillingRequest{
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) afisVerify(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[afisVerifyRequest](w, r, h.logger)
	if !ok {
		return
	}
	if len(req.Fingers) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "fingers must not be empty"))
		return
	}

	token, ok := h.cachedToken(w, req.ProviderUsername)
	if !ok {
		return
	}

	result, err := h.gateway.VerifyAFIS(r.Context(), token, gateway.AFISVerifyRequest{
		NationalID:  req.NationalID,
		DateOfBirth: req.DateOfBirth,
		Fingers:     req.Fingers,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// afisResult polls a verification job. The provider username rides in the
// query string since GETs carry no body.
func (h *Handler) afisResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	providerUsername := r.URL.Query().Get("provider_username")
	if providerUsername == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "provider_username query parameter is required"))
		return
	}

	token, ok := h.cachedToken(w, providerUsername)
	if !ok {
		return
	}

	status, err := h.gateway.AFISResult(r.Context(), token, jobID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

// afisUpload pushes raw fingerprint bytes to a pre-signed URL. The URL
// embeds its own authorization, so no cached token is involved.
func (h *Handler) afisUpload(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeValid[fingerprintUploadRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.gateway.UploadFingerprint(r.Context(), req.UploadURL, req.Image); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "uploaded"})
}

// cachedToken resolves the unexpired access token for a provider username,
// writing a not_found error when no binding exists. Expiry forces a fresh
// provider login; there is no silent refresh.
func (h *Handler) cachedToken(w http.ResponseWriter, providerUsername string) (string, bool) {
	token, ok := h.tokens.GetValid(providerUsername)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no cached provider token; log in to the provider first"))
		return "", false
	}
	return token, true
}
