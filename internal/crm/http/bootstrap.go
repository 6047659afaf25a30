package http

import (
	"net/http"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
	"github.com/aussiebroadwan/crmgate/internal/crm/service"
	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
	"github.com/aussiebroadwan/crmgate/pkg/slogx"
)

const bootstrapTokenHeader = "X-Bootstrap-Token"

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the first business
//	@Description	Creates the first business, seeds the Owner, Manager, Agent and Staff system roles and creates the Owner user.
//	@Description	Only available when a bootstrap token is configured and only once.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							true	"Bootstrap token for authorization"
//	@Param			request				body		crmsdk.BootstrapRequest			true	"Business and owner"
//	@Success		201					{object}	crmsdk.BootstrapResponse		"Created business, owner and roles"
//	@Failure		400					{object}	crmsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		401					{object}	crmsdk.ErrorResponse			"Missing or invalid bootstrap token"
//	@Failure		404					{object}	crmsdk.ErrorResponse			"Bootstrap not enabled (no token configured)"
//	@Failure		409					{object}	crmsdk.ErrorResponse			"Already bootstrapped"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Bootstrap endpoint is not enabled")
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get(bootstrapTokenHeader)
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized",
			"Bootstrap token is required in "+bootstrapTokenHeader+" header")
		return
	}

	// 3. Parse request body
	var req crmsdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	// 4. Perform bootstrap
	res, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		BusinessName:       req.BusinessName,
		OwnerUsername:      req.OwnerUsername,
		OwnerPreferredName: req.OwnerPreferredName,
		OwnerPassword:      req.OwnerPassword,
	})
	if err != nil {
		l.Warn("bootstrap failed", "err", err)
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, crmsdk.BootstrapResponse{
		Business: toBusiness(res.Business),
		Owner:    toUser(res.Owner),
		Roles:    toRoles(res.Roles),
	})
}
