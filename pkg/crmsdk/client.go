package crmsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/crmgate/pkg/rbac"
)

// SDKClient talks to a crmgate server. It is stateless: authenticated calls
// take the access token explicitly, and Store keeps the session.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client with a 10 second timeout.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ============================================================================
// Auth
// ============================================================================

// Login exchanges credentials for tokens. When the user enrolled TOTP and
// otp is empty the error satisfies IsOTPRequired.
func (c *SDKClient) Login(ctx context.Context, username, password, otp string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", "",
		LoginRequest{Username: username, Password: password, OTP: otp}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates a refresh token. The old token is unusable afterwards.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", "",
		RefreshRequest{RefreshToken: refreshToken}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes a refresh token.
func (c *SDKClient) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", "",
		RefreshRequest{RefreshToken: refreshToken}, nil, http.StatusNoContent)
}

// Bootstrap creates the first business and Owner. token is the server's
// BOOTSTRAP_TOKEN.
func (c *SDKClient) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	var out BootstrapResponse
	headers := map[string]string{"X-Bootstrap-Token": token}
	if err := c.send(ctx, http.MethodPost, "/v1/bootstrap", headers, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Profile
// ============================================================================

// Profile returns the user, role and business behind accessToken.
func (c *SDKClient) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/v1/me", accessToken, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Roles
// ============================================================================

func (c *SDKClient) ListRoles(ctx context.Context, accessToken string) ([]Role, error) {
	var out ListRolesResponse
	if err := c.do(ctx, http.MethodGet, "/v1/roles", accessToken, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Roles, nil
}

func (c *SDKClient) GetRole(ctx context.Context, accessToken, roleID string) (*Role, error) {
	var out Role
	if err := c.do(ctx, http.MethodGet, rolePath(roleID), accessToken, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) CreateRole(ctx context.Context, accessToken string, req RoleRequest) (*Role, error) {
	var out Role
	if err := c.do(ctx, http.MethodPost, "/v1/roles", accessToken, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveRole sends the whole role and returns what the server stored. System
// roles are rejected with ErrorCodeSystemRole.
func (c *SDKClient) SaveRole(ctx context.Context, accessToken string, role Role) (*Role, error) {
	req := RoleRequest{
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions,
	}
	if req.Permissions == nil {
		req.Permissions = []rbac.Permission{}
	}

	var out Role
	if err := c.do(ctx, http.MethodPut, rolePath(role.ID), accessToken, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleRole flips one cell of a role's matrix on the server.
func (c *SDKClient) ToggleRole(ctx context.Context, accessToken, roleID, resource string, action rbac.Action) (*Role, error) {
	var out Role
	err := c.do(ctx, http.MethodPost, rolePath(roleID)+"/toggle", accessToken,
		ToggleRequest{Resource: resource, Action: action}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) DeleteRole(ctx context.Context, accessToken, roleID string) error {
	return c.do(ctx, http.MethodDelete, rolePath(roleID), accessToken, nil, nil, http.StatusNoContent)
}

func rolePath(roleID string) string {
	return "/v1/roles/" + url.PathEscape(roleID)
}

// ============================================================================
// Permissions
// ============================================================================

// Matrix returns the resource x action grid.
func (c *SDKClient) Matrix(ctx context.Context, accessToken string) (*MatrixResponse, error) {
	var out MatrixResponse
	if err := c.do(ctx, http.MethodGet, "/v1/permissions/matrix", accessToken, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Check asks the server whether the caller may perform action on resource.
// A denial is a normal response, not an error.
func (c *SDKClient) Check(ctx context.Context, accessToken, resource string, action rbac.Action) (*CheckResponse, error) {
	var out CheckResponse
	err := c.do(ctx, http.MethodPost, "/v1/permissions/check", accessToken,
		CheckRequest{Resource: resource, Action: action}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Users
// ============================================================================

func (c *SDKClient) ListUsers(ctx context.Context, accessToken string) ([]UserInfo, error) {
	var out ListUsersResponse
	if err := c.do(ctx, http.MethodGet, "/v1/users", accessToken, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *SDKClient) CreateUser(ctx context.Context, accessToken string, req CreateUserRequest) (*CreateUserResponse, error) {
	var out CreateUserResponse
	if err := c.do(ctx, http.MethodPost, "/v1/users", accessToken, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) AssignRole(ctx context.Context, accessToken, userID, roleID string) (*UserInfo, error) {
	var out UserInfo
	err := c.do(ctx, http.MethodPut, "/v1/users/"+url.PathEscape(userID)+"/role", accessToken,
		AssignRoleRequest{RoleID: roleID}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Health
// ============================================================================

// Readyz checks the server's readiness. A 503 is returned as an *APIError.
func (c *SDKClient) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
