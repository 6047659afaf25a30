package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/crmgate/internal/crm/service"
	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
)

type ProfileHandler struct {
	ProfileService *service.ProfileService
}

// ServeHTTP handles GET /v1/me
//
//	@Summary		Current user profile
//	@Description	Returns the caller with their role and business. A token whose user no longer exists is rejected with 401 so the client drops its session.
//	@Tags			Profile
//	@Produce		json
//	@Success		200	{object}	crmsdk.Profile			"Profile"
//	@Failure		401	{object}	crmsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	crmsdk.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/me [get].
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	prof, err := h.ProfileService.Profile(r.Context(), p.UserID)
	if errors.Is(err, service.ErrUserNotFound) {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "user no longer exists")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, crmsdk.Profile{
		User:     toUser(prof.User),
		Role:     toRole(prof.Role),
		Business: toBusiness(prof.Business),
	})
}
