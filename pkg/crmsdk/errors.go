package crmsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned by crmgate in the "error" field.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeValidationFailed   = "validation_failed"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeOTPRequired        = "otp_required"
	ErrorCodeInvalidOTP         = "invalid_otp"
	ErrorCodeInvalidRefresh     = "invalid_refresh_token"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeRoleNotFound       = "role_not_found"
	ErrorCodeSystemRole         = "system_role"
	ErrorCodeRoleInUse          = "role_in_use"
	ErrorCodeServerError        = "server_error"
)

// APIError is any non-2xx answer from crmgate. Both the
// {"error","error_description"} and the {"code","message","details"}
// shapes decode into it.
type APIError struct {
	StatusCode int
	Code       string
	Message    string

	// Details is only set for validation failures (field -> problem).
	Details map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports whether err is a 403 from the server.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsOTPRequired reports whether a login needs a TOTP code to continue.
func IsOTPRequired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == ErrorCodeOTPRequired
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// parseErrorResponse turns an error body into an *APIError. Returns nil for
// 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Error,
			Message:    errResp.ErrorDescription,
		}
	}

	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       valErr.Code,
			Message:    valErr.Message,
			Details:    valErr.Details,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       ErrorCodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
