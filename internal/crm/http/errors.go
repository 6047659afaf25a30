package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/crmgate/internal/crm/service"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
	"github.com/aussiebroadwan/crmgate/pkg/slogx"
)

// serviceErrors maps sentinel service errors to their HTTP rendering.
var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrOTPRequired, http.StatusUnauthorized, "otp_required"},
	{service.ErrInvalidTOTPCode, http.StatusUnauthorized, "invalid_otp"},
	{service.ErrInvalidRefresh, http.StatusUnauthorized, "invalid_refresh_token"},
	{service.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{service.ErrRoleNotFound, http.StatusNotFound, "role_not_found"},
	{service.ErrRoleNameTaken, http.StatusConflict, "role_name_taken"},
	{service.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{service.ErrSystemRole, http.StatusConflict, "system_role"},
	{service.ErrRoleInUse, http.StatusConflict, "role_in_use"},
	{service.ErrLastOwner, http.StatusConflict, "last_owner"},
	{service.ErrMFAAlreadyEnabled, http.StatusConflict, "mfa_already_enabled"},
	{service.ErrMFANotEnrolled, http.StatusBadRequest, "mfa_not_enrolled"},
	{service.ErrBootstrapAlready, http.StatusConflict, "already_bootstrapped"},
	{service.ErrBootstrapUnauthorized, http.StatusUnauthorized, "unauthorized"},
}

// writeServiceError renders err. Unknown errors are logged and reported as
// a 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		httpx.WriteValidation(w, verr.Message, verr.Details)
		return
	}

	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			httpx.WriteError(w, m.status, m.code, m.err.Error())
			return
		}
	}

	slogx.FromContext(r.Context()).Error("request failed", "err", err)
	httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal server error")
}

func writeBadRequest(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
}

// principal returns the caller or writes a 401. Handlers behind
// AuthnMiddleware always have one.
func principal(w http.ResponseWriter, r *http.Request) (httpx.Principal, bool) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "authentication required")
	}
	return p, ok
}
