package crmsdk

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/crmgate/pkg/rbac"
)

const (
	testPassword = "correct horse battery"
	mfaUsername  = "mallory"
	supportID    = "rol_support"
)

// fakeCRM is an in-process stand-in for crmgate's REST API.
type fakeCRM struct {
	srv *httptest.Server

	mu         sync.Mutex
	validToken string
	role       Role
	failSave   bool
	loggedOut  []string

	profileCalls atomic.Int32

	// gate, when set, holds /v1/me until it is closed or the request ends.
	gate chan struct{}
}

func newFakeCRM(t *testing.T) *fakeCRM {
	t.Helper()

	f := &fakeCRM{
		validToken: "access-1",
		role: Role{
			ID: supportID,
			Role: rbac.Role{
				Name: "Support",
				Permissions: []rbac.Permission{
					{Resource: rbac.ResourceLeads, Actions: []rbac.Action{rbac.ActionRead}},
				},
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", f.login)
	mux.HandleFunc("POST /v1/auth/refresh", f.refresh)
	mux.HandleFunc("POST /v1/auth/logout", f.logout)
	mux.HandleFunc("POST /v1/bootstrap", f.bootstrap)
	mux.HandleFunc("GET /v1/me", f.me)
	mux.HandleFunc("GET /v1/roles", f.listRoles)
	mux.HandleFunc("PUT /v1/roles/{id}", f.saveRole)
	mux.HandleFunc("DELETE /v1/roles/{id}", f.deleteRole)
	mux.HandleFunc("GET /v1/permissions/matrix", f.matrix)
	mux.HandleFunc("POST /v1/permissions/check", f.check)

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeCRM) client() *SDKClient { return NewSDKClient(f.srv.URL + "/") }

func (f *fakeCRM) authorized(w http.ResponseWriter, r *http.Request) bool {
	f.mu.Lock()
	valid := f.validToken
	f.mu.Unlock()
	if r.Header.Get("Authorization") != "Bearer "+valid {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorCodeInvalidToken, ErrorDescription: "token expired"})
		return false
	}
	return true
}

func (f *fakeCRM) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	switch {
	case req.Password != testPassword:
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorCodeInvalidCredentials, ErrorDescription: "invalid_credentials"})
	case req.Username == mfaUsername && req.OTP == "":
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorCodeOTPRequired, ErrorDescription: "otp_required"})
	default:
		writeJSON(w, http.StatusOK, TokenResponse{AccessToken: "access-1", RefreshToken: "refresh-1", TokenType: "Bearer", ExpiresIn: 900})
	}
}

func (f *fakeCRM) refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.RefreshToken != "refresh-1" {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorCodeInvalidRefresh})
		return
	}
	f.mu.Lock()
	f.validToken = "access-2"
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2", TokenType: "Bearer", ExpiresIn: 900})
}

func (f *fakeCRM) logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	f.loggedOut = append(f.loggedOut, req.RefreshToken)
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeCRM) bootstrap(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Bootstrap-Token") != "boot" {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	var req BootstrapRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeJSON(w, http.StatusCreated, BootstrapResponse{
		Business: BusinessInfo{ID: "biz_1", Name: req.BusinessName},
		Owner:    UserInfo{ID: "usr_1", Username: req.OwnerUsername},
	})
}

func (f *fakeCRM) me(w http.ResponseWriter, r *http.Request) {
	f.profileCalls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-r.Context().Done():
			return
		}
	}
	if !f.authorized(w, r) {
		return
	}
	f.mu.Lock()
	role := f.role
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, Profile{
		User:     UserInfo{ID: "usr_1", Username: "sam", PreferredName: "Sam", RoleID: role.ID},
		Role:     role,
		Business: BusinessInfo{ID: "biz_1", Name: "Acme"},
	})
}

func (f *fakeCRM) listRoles(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, ListRolesResponse{Roles: []Role{f.role}})
}

func (f *fakeCRM) saveRole(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Code:    ErrorCodeValidationFailed,
			Message: "validation failed",
			Details: map[string]string{"permissions": "unknown resource \"bogus\""},
		})
		return
	}

	var req RoleRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.role = Role{
		ID: r.PathValue("id"),
		Role: rbac.Role{
			Name:        req.Name,
			Description: req.Description,
			Permissions: req.Permissions,
		},
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	writeJSON(w, http.StatusOK, f.role)
}

func (f *fakeCRM) deleteRole(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	writeJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorCodeRoleInUse, ErrorDescription: "role is assigned to users"})
}

func (f *fakeCRM) matrix(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, MatrixResponse{Actions: rbac.Actions(), Resources: rbac.Matrix()})
}

func (f *fakeCRM) check(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	var req CheckRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.mu.Lock()
	role := f.role.Role
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, CheckResponse{
		Resource: req.Resource,
		Action:   req.Action,
		Decision: rbac.Decide(&role, req.Resource, req.Action),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func storedBlob(access string) string {
	return `{"state":{"tokens":{"accessToken":"` + access + `"}}}`
}
