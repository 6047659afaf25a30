package http

import (
	"net/http"

	"github.com/aussiebroadwan/crmgate/internal/crm/service"
	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
)

// AuthHandler serves login, refresh and logout.
type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in
//	@Description	Exchanges username and password (plus a TOTP code once MFA is enabled) for a token pair.
//	@Description	When the user has MFA enabled and no otp is sent the server answers 401 otp_required.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		crmsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	crmsdk.TokenResponse	"Token pair"
//	@Failure		400		{object}	crmsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	crmsdk.ErrorResponse	"invalid_credentials, otp_required or invalid_otp"
//	@Failure		429		{object}	crmsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req crmsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Username, req.Password, req.OTP)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTokens(pair))
}

// HandleRefresh handles POST /v1/auth/refresh
//
//	@Summary		Refresh tokens
//	@Description	Rotates the refresh token. Replaying a rotated token revokes the whole session.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		crmsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	crmsdk.TokenResponse	"New token pair"
//	@Failure		400		{object}	crmsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	crmsdk.ErrorResponse	"invalid_refresh_token"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req crmsdk.RefreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTokens(pair))
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Log out
//	@Description	Revokes the refresh token. Unknown tokens are accepted.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	crmsdk.RefreshRequest	true	"Refresh token"
//	@Success		204		"Revoked"
//	@Failure		400		{object}	crmsdk.ErrorResponse	"Malformed body"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req crmsdk.RefreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.AuthService.Logout(r.Context(), req.RefreshToken); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
