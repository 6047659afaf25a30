package http

import (
	"net/http"

	"github.com/aussiebroadwan/crmgate/internal/crm/service"
	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
	"github.com/aussiebroadwan/crmgate/pkg/slogx"
)

// MFAHandler handles all MFA-related endpoints.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleEnroll handles POST /v1/mfa/totp/enroll
//
//	@Summary		Enroll in TOTP MFA
//	@Description	Generates a TOTP secret for the authenticated user. MFA is enabled only after a code is verified.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	crmsdk.MFAEnrollResponse	"TOTP secret and otpauth URL"
//	@Failure		401	{object}	crmsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		409	{object}	crmsdk.ErrorResponse		"MFA already enabled"
//	@Router			/v1/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	enrollment, err := h.MFAService.Enroll(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, crmsdk.MFAEnrollResponse{
		Secret:  enrollment.Secret,
		URL:     enrollment.URL,
		Issuer:  enrollment.Issuer,
		Account: enrollment.Account,
	})
}

// HandleVerify handles POST /v1/mfa/totp/verify
//
//	@Summary		Verify TOTP code and enable MFA
//	@Description	Verifies a code generated from the enrolled secret and enables MFA. Later logins must send an otp.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	crmsdk.MFAVerifyRequest	true	"TOTP code"
//	@Success		204		"MFA enabled"
//	@Failure		400		{object}	crmsdk.ErrorResponse	"Not enrolled"
//	@Failure		401		{object}	crmsdk.ErrorResponse	"Invalid code or token"
//	@Router			/v1/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req crmsdk.MFAVerifyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := h.MFAService.Verify(r.Context(), p.UserID, req.Code); err != nil {
		slogx.FromContext(r.Context()).Warn("totp verification failed", "user_id", p.UserID, "err", err)
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
