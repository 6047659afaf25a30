package httpx_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/crmgate/pkg/httpx"
	"github.com/aussiebroadwan/crmgate/pkg/jwtx"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/stretchr/testify/require"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mw("a"), mw("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSigner(priv)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.Add(signer.PublicJWK()))

	token, err := signer.Sign(jwtx.NewAccessClaims(jwtx.AccessParams{
		Subject:    "usr_1",
		BusinessID: "biz_1",
		RoleID:     "role_1",
		TTL:        time.Minute,
	}, time.Now()))
	require.NoError(t, err)

	var got httpx.Principal
	h := httpx.AuthnMiddleware(jwtx.NewVerifier(keys, jwtx.VerifyOptions{}))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = httpx.PrincipalFromContext(r.Context())
		}))

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusUnauthorized {
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
				var body httpx.ErrorBody
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Equal(t, "invalid_token", body.Error)
			}
		})
	}

	require.Equal(t, httpx.Principal{UserID: "usr_1", BusinessID: "biz_1", RoleID: "role_1"}, got)
}

type staticChecker map[string]bool

func (s staticChecker) Decide(_ context.Context, p httpx.Principal, resource string, action rbac.Action) rbac.Decision {
	return rbac.Decision{Allowed: s[p.UserID+"/"+resource+":"+string(action)], Reason: "static"}
}

func TestRequirePermission(t *testing.T) {
	checker := staticChecker{"usr_1/roles:update": true}
	h := httpx.RequirePermission(checker, rbac.ResourceRoles, rbac.ActionUpdate)(okHandler())

	serve := func(ctx context.Context) int {
		req := httptest.NewRequest(http.MethodPut, "/v1/roles/x", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusUnauthorized, serve(context.Background()))
	require.Equal(t, http.StatusOK, serve(httpx.WithPrincipal(context.Background(), httpx.Principal{UserID: "usr_1"}, jwtx.Claims{})))
	require.Equal(t, http.StatusForbidden, serve(httpx.WithPrincipal(context.Background(), httpx.Principal{UserID: "usr_2"}, jwtx.Claims{})))
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		payload string
		ok      bool
	}{
		{"valid", `{"name":"Support"}`, true},
		{"empty", ``, false},
		{"unknown field", `{"name":"x","extra":1}`, false},
		{"two objects", `{"name":"x"}{"name":"y"}`, false},
		{"not json", `name=x`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var v body
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.payload))
			err := httpx.DecodeJSON(httptest.NewRecorder(), req, &v)
			if tc.ok {
				require.NoError(t, err)
				require.Equal(t, "Support", v.Name)
			} else {
				require.Error(t, err)
			}
		})
	}
}
