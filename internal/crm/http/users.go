package http

import (
	"net/http"

	"github.com/aussiebroadwan/crmgate/internal/crm/service"
	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
)

type UsersHandler struct {
	UsersService *service.UsersService
}

// HandleList handles GET /v1/users
//
//	@Summary		List users
//	@Description	Returns the users of the caller's business. Requires users:read.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	crmsdk.ListUsersResponse	"Users"
//	@Failure		403	{object}	crmsdk.ErrorResponse		"Forbidden - missing users:read"
//	@Security		BearerAuth
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	users, err := h.UsersService.List(r.Context(), p.BusinessID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := crmsdk.ListUsersResponse{Users: make([]crmsdk.UserInfo, len(users))}
	for i, u := range users {
		resp.Users[i] = toUser(u)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /v1/users
//
//	@Summary		Invite a user
//	@Description	Creates a member of staff with a role of the caller's business. When no password is sent one is generated and returned once. Requires users:create.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		crmsdk.CreateUserRequest		true	"User"
//	@Success		201		{object}	crmsdk.CreateUserResponse		"Created user"
//	@Failure		400		{object}	crmsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		403		{object}	crmsdk.ErrorResponse			"Forbidden - missing users:create"
//	@Failure		409		{object}	crmsdk.ErrorResponse			"Username already in use"
//	@Security		BearerAuth
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req crmsdk.CreateUserRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	u, generated, err := h.UsersService.Create(r.Context(), p.BusinessID, service.CreateUserInput{
		Username:      req.Username,
		PreferredName: req.PreferredName,
		Password:      req.Password,
		RoleID:        req.RoleID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, crmsdk.CreateUserResponse{
		User:     toUser(u),
		Password: generated,
	})
}

// HandleAssignRole handles PUT /v1/users/{id}/role
//
//	@Summary		Assign a role
//	@Description	Moves a user to another role of the same business. The last Owner cannot be demoted. Requires users:update.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"User ID"
//	@Param			request	body		crmsdk.AssignRoleRequest	true	"Role"
//	@Success		200		{object}	crmsdk.UserInfo			"Updated user"
//	@Failure		403		{object}	crmsdk.ErrorResponse	"Forbidden - missing users:update"
//	@Failure		404		{object}	crmsdk.ErrorResponse	"User or role not found"
//	@Failure		409		{object}	crmsdk.ErrorResponse	"Last owner"
//	@Security		BearerAuth
//	@Router			/v1/users/{id}/role [put].
func (h *UsersHandler) HandleAssignRole(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req crmsdk.AssignRoleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	u, err := h.UsersService.AssignRole(r.Context(), p.BusinessID, r.PathValue("id"), req.RoleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}
