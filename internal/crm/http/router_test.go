package http

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/crmgate/internal/crm/service"
	"github.com/aussiebroadwan/crmgate/internal/crm/store/drivers/sqlite"
	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
	"github.com/aussiebroadwan/crmgate/pkg/cryptox"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
	"github.com/aussiebroadwan/crmgate/pkg/jwtx"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/stretchr/testify/require"
)

const (
	testBootstrapToken = "bootstrap-secret"
	testOwnerPassword  = "correct horse battery"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSigner(priv)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.Add(signer.PublicJWK()))
	verifier := jwtx.NewVerifier(keys, jwtx.VerifyOptions{Issuer: "https://crm.test", Audience: []string{"crm"}})

	hasher := cryptox.NewPasswordHasher("pepper").WithParams(cryptox.Argon2Params{
		Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16,
	})

	limits := httpx.DefaultRateLimitProfiles()
	limits.Strict = limits.Public

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter(keys, verifier, "test", st, logger, limits)
	r.Authorizer = service.NewAuthorizer(st, 0, 0)
	r.AuthService = &service.AuthService{
		Store:      st,
		Hasher:     hasher,
		Signer:     signer,
		Issuer:     "https://crm.test",
		Audience:   []string{"crm"},
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
	r.ProfileService = &service.ProfileService{Store: st}
	r.RolesService = &service.RolesService{Store: st, Authz: r.Authorizer}
	r.UsersService = &service.UsersService{Store: st, Hasher: hasher, Authz: r.Authorizer}
	r.BootstrapService = &service.BootstrapService{Store: st, Hasher: hasher, Token: testBootstrapToken}
	r.MFAService = &service.MFAService{Store: st, Issuer: "crmgate"}
	r.ApplyRoutes()
	return r
}

// do sends a JSON request and decodes the response into out when non-nil.
func do(t *testing.T, h http.Handler, method, path, token string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(bootstrapTokenHeader, testBootstrapToken)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

// setup bootstraps a business and returns the router with the owner's token.
func setup(t *testing.T) (*Router, crmsdk.BootstrapResponse, string) {
	t.Helper()
	r := newTestRouter(t)

	var boot crmsdk.BootstrapResponse
	rec := do(t, r, http.MethodPost, "/v1/bootstrap", "", crmsdk.BootstrapRequest{
		BusinessName:  "Acme Realty",
		OwnerUsername: "olivia",
		OwnerPassword: testOwnerPassword,
	}, &boot)
	require.Equal(t, http.StatusCreated, rec.Code)

	return r, boot, login(t, r, "olivia", testOwnerPassword)
}

func login(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()
	var tokens crmsdk.TokenResponse
	rec := do(t, r, http.MethodPost, "/v1/auth/login", "", crmsdk.LoginRequest{
		Username: username,
		Password: password,
	}, &tokens)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return tokens.AccessToken
}

func roleID(t *testing.T, boot crmsdk.BootstrapResponse, name string) string {
	t.Helper()
	for _, r := range boot.Roles {
		if r.Name == name {
			return r.ID
		}
	}
	t.Fatalf("role %s missing", name)
	return ""
}

func TestBootstrapAndProfile(t *testing.T) {
	r, boot, token := setup(t)

	require.Len(t, boot.Roles, 4)
	require.Equal(t, "olivia", boot.Owner.Username)

	var prof crmsdk.Profile
	rec := do(t, r, http.MethodGet, "/v1/me", token, nil, &prof)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, boot.Owner.ID, prof.User.ID)
	require.Equal(t, rbac.RoleOwner, prof.Role.Name)
	require.True(t, prof.Role.System)
	require.Equal(t, "Acme Realty", prof.Business.Name)

	var errResp crmsdk.ErrorResponse
	rec = do(t, r, http.MethodPost, "/v1/bootstrap", "", crmsdk.BootstrapRequest{
		BusinessName: "Again", OwnerUsername: "x", OwnerPassword: testOwnerPassword,
	}, &errResp)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "already_bootstrapped", errResp.Error)
}

func TestAuthErrors(t *testing.T) {
	r, _, _ := setup(t)

	var errResp crmsdk.ErrorResponse
	rec := do(t, r, http.MethodPost, "/v1/auth/login", "", crmsdk.LoginRequest{
		Username: "olivia", Password: "wrong password",
	}, &errResp)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid_credentials", errResp.Error)

	rec = do(t, r, http.MethodGet, "/v1/me", "", nil, &errResp)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid_token", errResp.Error)

	rec = do(t, r, http.MethodGet, "/v1/me", "not.a.jwt", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodPost, "/v1/auth/login", "", map[string]any{"username": "olivia", "extra": true}, &errResp)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", errResp.Error)
}

func TestRefreshAndLogout(t *testing.T) {
	r, _, _ := setup(t)

	var tokens crmsdk.TokenResponse
	rec := do(t, r, http.MethodPost, "/v1/auth/login", "", crmsdk.LoginRequest{
		Username: "olivia", Password: testOwnerPassword,
	}, &tokens)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Bearer", tokens.TokenType)

	var rotated crmsdk.TokenResponse
	rec = do(t, r, http.MethodPost, "/v1/auth/refresh", "", crmsdk.RefreshRequest{RefreshToken: tokens.RefreshToken}, &rotated)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	rec = do(t, r, http.MethodPost, "/v1/auth/logout", "", crmsdk.RefreshRequest{RefreshToken: rotated.RefreshToken}, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var errResp crmsdk.ErrorResponse
	rec = do(t, r, http.MethodPost, "/v1/auth/refresh", "", crmsdk.RefreshRequest{RefreshToken: rotated.RefreshToken}, &errResp)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid_refresh_token", errResp.Error)
}

func TestRoleLifecycle(t *testing.T) {
	r, boot, token := setup(t)

	var created crmsdk.Role
	rec := do(t, r, http.MethodPost, "/v1/roles", token, crmsdk.RoleRequest{
		Name: "Support",
		Permissions: []rbac.Permission{
			{Resource: rbac.ResourceLeads, Actions: []rbac.Action{rbac.ActionRead}},
		},
	}, &created)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotEmpty(t, created.ID)
	require.False(t, created.System)

	var toggled crmsdk.Role
	rec = do(t, r, http.MethodPost, "/v1/roles/"+created.ID+"/toggle", token, crmsdk.ToggleRequest{
		Resource: rbac.ResourceLeads, Action: rbac.ActionUpdate,
	}, &toggled)
	require.Equal(t, http.StatusOK, rec.Code)
	p, ok := toggled.Permission(rbac.ResourceLeads)
	require.True(t, ok)
	require.Equal(t, []rbac.Action{rbac.ActionRead, rbac.ActionUpdate}, p.Actions)

	var saved crmsdk.Role
	rec = do(t, r, http.MethodPut, "/v1/roles/"+created.ID, token, crmsdk.RoleRequest{
		Name:        "Support",
		Description: "Front line",
		Permissions: []rbac.Permission{},
	}, &saved)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Front line", saved.Description)
	require.Empty(t, saved.Permissions)

	var list crmsdk.ListRolesResponse
	rec = do(t, r, http.MethodGet, "/v1/roles", token, nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list.Roles, 5)

	var errResp crmsdk.ErrorResponse
	rec = do(t, r, http.MethodPut, "/v1/roles/"+roleID(t, boot, rbac.RoleManager), token, crmsdk.RoleRequest{Name: "Boss"}, &errResp)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "system_role", errResp.Error)

	var verr crmsdk.ValidationErrorResponse
	rec = do(t, r, http.MethodPost, "/v1/roles", token, crmsdk.RoleRequest{Name: rbac.RoleStaff}, &verr)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation_failed", verr.Code)
	require.Contains(t, verr.Details, "name")

	rec = do(t, r, http.MethodDelete, "/v1/roles/"+created.ID, token, nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodGet, "/v1/roles/"+created.ID, token, nil, &errResp)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "role_not_found", errResp.Error)
}

func TestPermissionGuard(t *testing.T) {
	r, boot, ownerToken := setup(t)

	var created crmsdk.CreateUserResponse
	rec := do(t, r, http.MethodPost, "/v1/users", ownerToken, crmsdk.CreateUserRequest{
		Username: "sam",
		RoleID:   roleID(t, boot, rbac.RoleStaff),
	}, &created)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotEmpty(t, created.Password)

	staffToken := login(t, r, "sam", created.Password)

	var errResp crmsdk.ErrorResponse
	rec = do(t, r, http.MethodGet, "/v1/roles", staffToken, nil, &errResp)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "forbidden", errResp.Error)

	rec = do(t, r, http.MethodGet, "/v1/users", staffToken, nil, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// promotion takes effect without a new token
	var updated crmsdk.UserInfo
	rec = do(t, r, http.MethodPut, "/v1/users/"+created.User.ID+"/role", ownerToken, crmsdk.AssignRoleRequest{
		RoleID: roleID(t, boot, rbac.RoleManager),
	}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, roleID(t, boot, rbac.RoleManager), updated.RoleID)

	var users crmsdk.ListUsersResponse
	rec = do(t, r, http.MethodGet, "/v1/users", staffToken, nil, &users)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, users.Users, 2)

	rec = do(t, r, http.MethodPut, "/v1/users/"+boot.Owner.ID+"/role", ownerToken, crmsdk.AssignRoleRequest{
		RoleID: roleID(t, boot, rbac.RoleStaff),
	}, &errResp)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "last_owner", errResp.Error)
}

func TestPermissionsEndpoints(t *testing.T) {
	r, boot, ownerToken := setup(t)

	var matrix crmsdk.MatrixResponse
	rec := do(t, r, http.MethodGet, "/v1/permissions/matrix", ownerToken, nil, &matrix)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, rbac.Actions(), matrix.Actions)
	require.Len(t, matrix.Resources, len(rbac.Resources()))

	var created crmsdk.CreateUserResponse
	rec = do(t, r, http.MethodPost, "/v1/users", ownerToken, crmsdk.CreateUserRequest{
		Username: "mia",
		Password: "manager password",
		RoleID:   roleID(t, boot, rbac.RoleManager),
	}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Empty(t, created.Password)
	managerToken := login(t, r, "mia", "manager password")

	tests := []struct {
		name    string
		req     crmsdk.CheckRequest
		allowed bool
	}{
		{"manage grants delete", crmsdk.CheckRequest{Resource: rbac.ResourceLeads, Action: rbac.ActionDelete}, true},
		{"alias view", crmsdk.CheckRequest{Resource: rbac.ResourceReports, Action: "view"}, true},
		{"no grant", crmsdk.CheckRequest{Resource: rbac.ResourceSettings, Action: rbac.ActionUpdate}, false},
		{"unknown action", crmsdk.CheckRequest{Resource: rbac.ResourceLeads, Action: "approve"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp crmsdk.CheckResponse
			rec := do(t, r, http.MethodPost, "/v1/permissions/check", managerToken, tt.req, &resp)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tt.allowed, resp.Allowed, resp.Reason)
		})
	}
}

func TestSystemEndpoints(t *testing.T) {
	r := newTestRouter(t)

	var health crmsdk.HealthResponse
	rec := do(t, r, http.MethodGet, "/livez", "", nil, &health)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)

	rec = do(t, r, http.MethodGet, "/readyz", "", nil, &health)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", health.Checks.Database)

	var jwks jwtx.JWKS
	rec = do(t, r, http.MethodGet, "/.well-known/jwks.json", "", nil, &jwks)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)

	require.NoError(t, r.store.Close())
	rec = do(t, r, http.MethodGet, "/readyz", "", nil, &health)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBootstrapDisabled(t *testing.T) {
	r := newTestRouter(t)
	r.BootstrapService.Token = ""

	var errResp crmsdk.ErrorResponse
	rec := do(t, r, http.MethodPost, "/v1/bootstrap", "", crmsdk.BootstrapRequest{}, &errResp)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
