package http

import (
	"net/http"

	"github.com/aussiebroadwan/crmgate/internal/crm/service"
	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
)

type RolesHandler struct {
	RolesService *service.RolesService
}

// HandleList handles GET /v1/roles
//
//	@Summary		List roles
//	@Description	Returns the roles of the caller's business, system roles first. Requires roles:read.
//	@Tags			Roles
//	@Produce		json
//	@Success		200	{object}	crmsdk.ListRolesResponse	"List of roles"
//	@Failure		401	{object}	crmsdk.ErrorResponse		"Unauthorized - missing or invalid token"
//	@Failure		403	{object}	crmsdk.ErrorResponse		"Forbidden - missing roles:read"
//	@Failure		500	{object}	crmsdk.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/roles [get].
func (h *RolesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	roles, err := h.RolesService.List(r.Context(), p.BusinessID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, crmsdk.ListRolesResponse{Roles: toRoles(roles)})
}

// HandleGet handles GET /v1/roles/{id}
//
//	@Summary		Get a role
//	@Description	Returns one role of the caller's business. Requires roles:read.
//	@Tags			Roles
//	@Produce		json
//	@Param			id	path		string					true	"Role ID"
//	@Success		200	{object}	crmsdk.Role				"Role"
//	@Failure		401	{object}	crmsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Failure		403	{object}	crmsdk.ErrorResponse	"Forbidden - missing roles:read"
//	@Failure		404	{object}	crmsdk.ErrorResponse	"Role not found"
//	@Security		BearerAuth
//	@Router			/v1/roles/{id} [get].
func (h *RolesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	role, err := h.RolesService.Get(r.Context(), p.BusinessID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRole(role))
}

// HandleCreate handles POST /v1/roles
//
//	@Summary		Create a role
//	@Description	Creates a custom role. Names are unique per business and system role names are reserved. Requires roles:create.
//	@Tags			Roles
//	@Accept			json
//	@Produce		json
//	@Param			request	body		crmsdk.RoleRequest				true	"Role"
//	@Success		201		{object}	crmsdk.Role						"Created role"
//	@Failure		400		{object}	crmsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		403		{object}	crmsdk.ErrorResponse			"Forbidden - missing roles:create"
//	@Failure		409		{object}	crmsdk.ErrorResponse			"Name already in use"
//	@Security		BearerAuth
//	@Router			/v1/roles [post].
func (h *RolesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req crmsdk.RoleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	role, err := h.RolesService.Create(r.Context(), p.BusinessID, service.RoleInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRole(role))
}

// HandleUpdate handles PUT /v1/roles/{id}
//
//	@Summary		Save a role
//	@Description	Replaces name, description and permissions of a custom role. System roles answer 409 system_role. Requires roles:update.
//	@Tags			Roles
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Role ID"
//	@Param			request	body		crmsdk.RoleRequest				true	"Role"
//	@Success		200		{object}	crmsdk.Role						"Saved role"
//	@Failure		400		{object}	crmsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		403		{object}	crmsdk.ErrorResponse			"Forbidden - missing roles:update"
//	@Failure		404		{object}	crmsdk.ErrorResponse			"Role not found"
//	@Failure		409		{object}	crmsdk.ErrorResponse			"System role or name already in use"
//	@Security		BearerAuth
//	@Router			/v1/roles/{id} [put].
func (h *RolesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req crmsdk.RoleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	role, err := h.RolesService.UpdatePermissions(r.Context(), p.BusinessID, r.PathValue("id"), service.RoleInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRole(role))
}

// HandleToggle handles POST /v1/roles/{id}/toggle
//
//	@Summary		Toggle one permission
//	@Description	Adds the action to the role's entry for the resource, or removes it when present. Requires roles:update.
//	@Tags			Roles
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Role ID"
//	@Param			request	body		crmsdk.ToggleRequest			true	"Matrix cell"
//	@Success		200		{object}	crmsdk.Role						"Saved role"
//	@Failure		400		{object}	crmsdk.ValidationErrorResponse	"Unknown resource or action"
//	@Failure		404		{object}	crmsdk.ErrorResponse			"Role not found"
//	@Failure		409		{object}	crmsdk.ErrorResponse			"System role"
//	@Security		BearerAuth
//	@Router			/v1/roles/{id}/toggle [post].
func (h *RolesHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req crmsdk.ToggleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	role, err := h.RolesService.TogglePermission(r.Context(), p.BusinessID, r.PathValue("id"), req.Resource, req.Action)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRole(role))
}

// HandleDelete handles DELETE /v1/roles/{id}
//
//	@Summary		Delete a role
//	@Description	Deletes a custom role no user holds. Requires roles:delete.
//	@Tags			Roles
//	@Param			id	path	string	true	"Role ID"
//	@Success		204	"Deleted"
//	@Failure		403	{object}	crmsdk.ErrorResponse	"Forbidden - missing roles:delete"
//	@Failure		404	{object}	crmsdk.ErrorResponse	"Role not found"
//	@Failure		409	{object}	crmsdk.ErrorResponse	"System role or role in use"
//	@Security		BearerAuth
//	@Router			/v1/roles/{id} [delete].
func (h *RolesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.RolesService.Delete(r.Context(), p.BusinessID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
