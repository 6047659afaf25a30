package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
)

type PermissionsHandler struct {
	Checker httpx.PermissionChecker
}

// HandleMatrix handles GET /v1/permissions/matrix
//
//	@Summary		Permission matrix
//	@Description	Returns every resource with the actions a role can be granted on it.
//	@Tags			Permissions
//	@Produce		json
//	@Success		200	{object}	crmsdk.MatrixResponse	"Resource x action grid"
//	@Failure		401	{object}	crmsdk.ErrorResponse	"Invalid or missing access token"
//	@Security		BearerAuth
//	@Router			/v1/permissions/matrix [get].
func (h *PermissionsHandler) HandleMatrix(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, crmsdk.MatrixResponse{
		Actions:   rbac.Actions(),
		Resources: rbac.Matrix(),
	})
}

// HandleCheck handles POST /v1/permissions/check
//
//	@Summary		Check a permission
//	@Description	Evaluates whether the caller may perform an action on a resource using their current role.
//	@Tags			Permissions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		crmsdk.CheckRequest		true	"Resource and action"
//	@Success		200		{object}	crmsdk.CheckResponse	"Decision"
//	@Failure		400		{object}	crmsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	crmsdk.ErrorResponse	"Invalid or missing access token"
//	@Security		BearerAuth
//	@Router			/v1/permissions/check [post].
func (h *PermissionsHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req crmsdk.CheckRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	resource := strings.TrimSpace(req.Resource)
	d := h.Checker.Decide(r.Context(), p, resource, req.Action)
	httpx.WriteJSON(w, http.StatusOK, crmsdk.CheckResponse{
		Resource: resource,
		Action:   req.Action,
		Decision: d,
	})
}
