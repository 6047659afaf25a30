package crmsdk

import (
	"time"

	"github.com/aussiebroadwan/crmgate/pkg/rbac"
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the wire shape of an error. Client code receives an
// *APIError instead.
type ErrorResponse struct {
	// Error is the machine readable code (e.g. "forbidden", "role_in_use")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description,omitempty"`
}

// ValidationErrorResponse is returned when request validation fails.
type ValidationErrorResponse struct {
	// Code is always "validation_failed"
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains field-specific validation errors (field name: error message)
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Auth Types
// ============================================================================

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`

	// OTP is required once the user enabled TOTP. Omit it on the first
	// attempt; the server answers otp_required when it is needed.
	OTP string `json:"otp,omitempty"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	// AccessToken is the EdDSA signed JWT sent as a Bearer token
	AccessToken string `json:"accessToken"`

	// RefreshToken is the opaque token exchanged at /v1/auth/refresh
	RefreshToken string `json:"refreshToken"`

	// TokenType is always "Bearer"
	TokenType string `json:"tokenType"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int64 `json:"expiresIn"`
}

// RefreshRequest is the body of /v1/auth/refresh and /v1/auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ============================================================================
// Bootstrap Types
// ============================================================================

// BootstrapRequest creates the first business and its Owner.
type BootstrapRequest struct {
	BusinessName       string `json:"businessName"`
	OwnerUsername      string `json:"ownerUsername"`
	OwnerPreferredName string `json:"ownerPreferredName,omitempty"`
	OwnerPassword      string `json:"ownerPassword"`
}

// BootstrapResponse reports the created business, owner and seeded roles.
type BootstrapResponse struct {
	Business BusinessInfo `json:"business"`
	Owner    UserInfo     `json:"owner"`
	Roles    []Role       `json:"roles"`
}

// ============================================================================
// Profile Types
// ============================================================================

// BusinessInfo is a tenant as clients see it.
type BusinessInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserInfo is a user as clients see it. Password hashes and TOTP secrets
// never leave the server.
type UserInfo struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	PreferredName string `json:"preferredName"`
	RoleID        string `json:"roleId"`
	MFAEnabled    bool   `json:"mfaEnabled"`
}

// Profile is the response of GET /v1/me.
type Profile struct {
	User     UserInfo     `json:"user"`
	Role     Role         `json:"role"`
	Business BusinessInfo `json:"business"`
}

// ============================================================================
// Role Types
// ============================================================================

// Role is a persisted role. The embedded rbac.Role carries name,
// description, permissions and the system flag.
type Role struct {
	ID string `json:"id"`
	rbac.Role
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// ListRolesResponse contains the roles of the caller's business.
type ListRolesResponse struct {
	Roles []Role `json:"roles"`
}

// RoleRequest is the body of POST /v1/roles and PUT /v1/roles/{id}.
type RoleRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Permissions []rbac.Permission `json:"permissions"`
}

// ToggleRequest flips one cell of the permission matrix.
type ToggleRequest struct {
	Resource string      `json:"resource"`
	Action   rbac.Action `json:"action"`
}

// MatrixResponse is the resource x action grid rendered by role editors.
type MatrixResponse struct {
	Actions   []rbac.Action    `json:"actions"`
	Resources []rbac.MatrixRow `json:"resources"`
}

// CheckRequest asks whether the caller may act on a resource.
type CheckRequest struct {
	Resource string      `json:"resource"`
	Action   rbac.Action `json:"action"`
}

// CheckResponse is the server's decision for a CheckRequest.
type CheckResponse struct {
	Resource string      `json:"resource"`
	Action   rbac.Action `json:"action"`
	rbac.Decision
}

// ============================================================================
// User Types
// ============================================================================

// ListUsersResponse contains the users of the caller's business.
type ListUsersResponse struct {
	Users []UserInfo `json:"users"`
}

// CreateUserRequest invites a member of staff. Omit Password to have the
// server generate one.
type CreateUserRequest struct {
	Username      string `json:"username"`
	PreferredName string `json:"preferredName,omitempty"`
	Password      string `json:"password,omitempty"`
	RoleID        string `json:"roleId"`
}

// CreateUserResponse returns the new user. Password is only set when the
// server generated it and is never shown again.
type CreateUserResponse struct {
	User     UserInfo `json:"user"`
	Password string   `json:"password,omitempty"`
}

// AssignRoleRequest is the body of PUT /v1/users/{id}/role.
type AssignRoleRequest struct {
	RoleID string `json:"roleId"`
}

// ============================================================================
// MFA Types
// ============================================================================

// MFAEnrollResponse carries the TOTP secret to add to an authenticator app.
type MFAEnrollResponse struct {
	Secret  string `json:"secret"`
	URL     string `json:"url"` // otpauth:// URL for QR code generation
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

// MFAVerifyRequest confirms enrollment with a code from the app.
type MFAVerifyRequest struct {
	Code string `json:"code"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the readiness of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
