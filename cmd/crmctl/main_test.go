package main

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/crmgate/internal/crm/app"
	"github.com/aussiebroadwan/crmgate/pkg/crmsdk"
	"github.com/aussiebroadwan/crmgate/pkg/httpx"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/stretchr/testify/require"
)

const (
	ownerUsername = "olivia"
	ownerPassword = "correct horse battery"
)

// newServer serves a fresh, bootstrapped crmgate and returns its URL.
func newServer(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	limits := httpx.DefaultRateLimitProfiles()
	limits.Strict = limits.Public
	limits.Moderate = limits.Public

	a, err := app.New(app.Config{
		Issuer:               "crmgate-test",
		Audience:             []string{"crmctl"},
		BootstrapToken:       "boot",
		DatabaseFile:         ":memory:",
		PepperFile:           filepath.Join(dir, "pepper"),
		SigningKeyFile:       filepath.Join(dir, "signing.pem"),
		Env:                  "test",
		LogLevel:             "error",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
		AccessTokenTTL:       15 * time.Minute,
		RefreshTokenTTL:      time.Hour,
		RateLimits:           limits,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	_, err = crmsdk.NewSDKClient(srv.URL).Bootstrap(t.Context(), "boot", crmsdk.BootstrapRequest{
		BusinessName:  "Acme",
		OwnerUsername: ownerUsername,
		OwnerPassword: ownerPassword,
	})
	require.NoError(t, err)
	return srv.URL
}

// ctl runs crmctl against server with its own session file.
type ctl struct {
	t       *testing.T
	server  string
	session string
}

func newCtl(t *testing.T, server string) *ctl {
	return &ctl{t: t, server: server, session: filepath.Join(t.TempDir(), "session.json")}
}

func (c *ctl) run(stdin string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"--server", c.server, "--session", c.session}, args...)
	err := run(c.t.Context(), full, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func TestHelpAndUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(t.Context(), nil, strings.NewReader(""), &stdout, &stderr))
	require.Contains(t, stderr.String(), "Commands:")
	require.Contains(t, stderr.String(), "toggle")

	err := run(t.Context(), []string{"frobnicate"}, strings.NewReader(""), &stdout, &stderr)
	require.ErrorContains(t, err, "unknown command")
}

func TestOwnerSession(t *testing.T) {
	server := newServer(t)
	c := newCtl(t, server)

	_, err := c.run("", "whoami")
	require.ErrorIs(t, err, errNotLoggedIn)

	_, err = c.run("wrong password\n", "login", "-u", ownerUsername)
	require.True(t, crmsdk.IsUnauthorized(err))

	out, err := c.run(ownerPassword+"\n", "login", "-u", ownerUsername)
	require.NoError(t, err)
	require.Equal(t, "logged in as olivia (Owner) at Acme\n", out)

	out, err = c.run("", "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "role:     Owner")
	require.Contains(t, out, "webhooks")

	out, err = c.run("", "roles")
	require.NoError(t, err)
	for _, name := range []string{rbac.RoleOwner, rbac.RoleManager, rbac.RoleStaff} {
		require.Contains(t, out, name)
	}

	out, err = c.run("", "can", "invoices", "delete")
	require.NoError(t, err)
	require.Contains(t, out, "invoices:delete allowed")

	out, err = c.run("", "logout")
	require.NoError(t, err)
	require.Equal(t, "logged out\n", out)

	_, err = c.run("", "roles")
	require.ErrorIs(t, err, errNotLoggedIn)
}

func TestToggleAndCan(t *testing.T) {
	server := newServer(t)
	owner := newCtl(t, server)
	_, err := owner.run("", "login", "-u", ownerUsername, "-p", ownerPassword)
	require.NoError(t, err)

	client := crmsdk.NewSDKClient(server)
	token := loggedInToken(t, owner)

	support, err := client.CreateRole(t.Context(), token, crmsdk.RoleRequest{
		Name:        "Support",
		Permissions: []rbac.Permission{{Resource: rbac.ResourceLeads, Actions: []rbac.Action{rbac.ActionRead}}},
	})
	require.NoError(t, err)
	_, err = client.CreateUser(t.Context(), token, crmsdk.CreateUserRequest{
		Username: "sam",
		Password: "sam-password",
		RoleID:   support.ID,
	})
	require.NoError(t, err)

	sam := newCtl(t, server)
	_, err = sam.run("", "login", "-u", "sam", "-p", "sam-password")
	require.NoError(t, err)

	out, err := sam.run("", "can", "invoices", "read")
	var exit exitError
	require.ErrorAs(t, err, &exit)
	require.Equal(t, 1, exit.ExitCode())
	require.Contains(t, out, "invoices:read denied")

	out, err = owner.run("", "toggle", support.ID, "invoices", "view")
	require.NoError(t, err)
	require.Equal(t, "Support: invoices:read granted\n", out)

	// The new grant applies to sam's existing token.
	_, err = sam.run("", "can", "-q", "invoices", "read")
	require.NoError(t, err)

	out, err = owner.run("", "toggle", support.ID, "invoices", "read")
	require.NoError(t, err)
	require.Equal(t, "Support: invoices:read revoked\n", out)

	roles, err := client.ListRoles(t.Context(), token)
	require.NoError(t, err)
	var staffID string
	for _, r := range roles {
		if r.Name == rbac.RoleStaff {
			staffID = r.ID
		}
	}
	_, err = owner.run("", "toggle", staffID, "leads", "read")
	require.ErrorIs(t, err, crmsdk.ErrSystemRoleReadOnly)

	_, err = owner.run("", "toggle", support.ID, "spaceships", "read")
	require.ErrorContains(t, err, "unknown resource")
}

func loggedInToken(t *testing.T, c *ctl) string {
	t.Helper()
	store := crmsdk.NewStore(crmsdk.NewSDKClient(c.server), crmsdk.NewFileStorage(c.session))
	require.NoError(t, store.Bootstrap(t.Context()))
	require.Equal(t, crmsdk.StatusAuthenticated, store.Snapshot().Status)
	return store.AccessToken()
}
