package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
	"github.com/aussiebroadwan/crmgate/internal/crm/store/drivers/sqlite"
	"github.com/aussiebroadwan/crmgate/pkg/cryptox"
	"github.com/aussiebroadwan/crmgate/pkg/jwtx"
	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/stretchr/testify/require"
)

const (
	testBootstrapToken = "bootstrap-secret"
	testOwnerPassword  = "correct horse battery"
)

// env wires every service against one in-memory store.
type env struct {
	store     *sqlite.Store
	authz     *Authorizer
	auth      *AuthService
	roles     *RolesService
	users     *UsersService
	profile   *ProfileService
	mfa       *MFAService
	bootstrap *BootstrapService
	keys      *jwtx.KeySet
}

func newEnv(t *testing.T) *env {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	hasher := cryptox.NewPasswordHasher("pepper").WithParams(cryptox.Argon2Params{
		Memory:      64,
		Iterations:  1,
		Parallelism: 1,
		KeyLength:   32,
		SaltLength:  16,
	})

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSigner(priv)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.Add(signer.PublicJWK()))

	authz := NewAuthorizer(s, 0, 0)
	return &env{
		store: s,
		authz: authz,
		auth: &AuthService{
			Store:      s,
			Hasher:     hasher,
			Signer:     signer,
			Issuer:     "https://crm.test",
			Audience:   []string{"crm"},
			AccessTTL:  jwtx.DefaultAccessTokenTTL,
			RefreshTTL: jwtx.DefaultRefreshTokenTTL,
		},
		roles:     &RolesService{Store: s, Authz: authz},
		users:     &UsersService{Store: s, Hasher: hasher, Authz: authz},
		profile:   &ProfileService{Store: s},
		mfa:       &MFAService{Store: s, Issuer: "crmgate"},
		bootstrap: &BootstrapService{Store: s, Hasher: hasher, Token: testBootstrapToken},
		keys:      keys,
	}
}

func (e *env) seed(t *testing.T) domain.BootstrapResult {
	t.Helper()

	res, err := e.bootstrap.Bootstrap(context.Background(), testBootstrapToken, domain.BootstrapData{
		BusinessName:       "Acme Realty",
		OwnerUsername:      "Olivia",
		OwnerPreferredName: "Olivia",
		OwnerPassword:      testOwnerPassword,
	})
	require.NoError(t, err)
	return res
}

func systemRole(t *testing.T, res domain.BootstrapResult, name string) domain.Role {
	t.Helper()
	for _, r := range res.Roles {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("role %s not seeded", name)
	return domain.Role{}
}

func (e *env) customRole(t *testing.T, businessID string, perms ...rbac.Permission) domain.Role {
	t.Helper()
	r, err := e.roles.Create(context.Background(), businessID, RoleInput{
		Name:        "Support",
		Description: "Front line",
		Permissions: perms,
	})
	require.NoError(t, err)
	return r
}

func (e *env) verifier() jwtx.Verifier {
	return jwtx.NewVerifier(e.keys, jwtx.VerifyOptions{
		Issuer:   "https://crm.test",
		Audience: []string{"crm"},
		Leeway:   time.Minute,
	})
}
